package simulation

import (
	"container/heap"
	"time"
)

// EventKind discriminates queued simulation events.
type EventKind string

const (
	EventOrderArrival     EventKind = "ORDER_ARRIVAL"
	EventBlockageStart    EventKind = "BLOCKAGE_START"
	EventBlockageEnd      EventKind = "BLOCKAGE_END"
	EventMaintenanceStart EventKind = "MAINTENANCE_START"
	EventMaintenanceEnd   EventKind = "MAINTENANCE_END"
	EventIncidentTrigger  EventKind = "INCIDENT_TRIGGER"
	EventIncidentResolve  EventKind = "INCIDENT_RESOLVE"
	EventReplan           EventKind = "REPLAN"
	EventSimulationEnd    EventKind = "SIMULATION_END"
)

// kindPriority fixes the application order of events sharing a
// timestamp. Within a kind, ties break by entity id lex order.
var kindPriority = map[EventKind]int{
	EventOrderArrival:     0,
	EventBlockageStart:    1,
	EventBlockageEnd:      2,
	EventMaintenanceEnd:   3,
	EventIncidentResolve:  4,
	EventIncidentTrigger:  5,
	EventMaintenanceStart: 6,
	EventReplan:           7,
	EventSimulationEnd:    8,
}

// Event is one scheduled world change.
type Event struct {
	Time     time.Time
	Kind     EventKind
	EntityID string
	Payload  interface{}
}

// eventHeap orders events by (time, kind priority, entity id).
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if !h[i].Time.Equal(h[j].Time) {
		return h[i].Time.Before(h[j].Time)
	}
	pi, pj := kindPriority[h[i].Kind], kindPriority[h[j].Kind]
	if pi != pj {
		return pi < pj
	}
	return h[i].EntityID < h[j].EntityID
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	event := old[n-1]
	*h = old[:n-1]
	return event
}

// EventQueue is the orchestrator's priority queue of pending events.
type EventQueue struct {
	heap eventHeap
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.heap)
	return q
}

// Push schedules an event.
func (q *EventQueue) Push(event Event) {
	heap.Push(&q.heap, event)
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.heap)
}

// PopDue drains every event with time <= now, in application order.
func (q *EventQueue) PopDue(now time.Time) []Event {
	var due []Event
	for len(q.heap) > 0 && !q.heap[0].Time.After(now) {
		due = append(due, heap.Pop(&q.heap).(Event))
	}
	return due
}

// Clear drops all pending events.
func (q *EventQueue) Clear() {
	q.heap = q.heap[:0]
}
