package api

import (
	"net/http"

	"github.com/andrescamacho/lpg-dispatch/internal/application/control"
	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), control.SimulationStatusQuery{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), control.StartSimulationCommand{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), control.PauseSimulationCommand{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), control.ResetSimulationCommand{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		response, err := s.mediator.Send(r.Context(), control.SpeedQuery{})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		speed := response.(control.SpeedResult)
		status, err := s.mediator.Send(r.Context(), control.SimulationStatusQuery{})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, map[string]interface{}{
			"currentSpeed":      speed.TickPeriodMs,
			"unit":              "milliseconds",
			"simulationRunning": status.(simulation.StatusSnapshot).Running,
		})

	case http.MethodPost:
		var body struct {
			Speed int `json:"speed"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		response, err := s.mediator.Send(r.Context(), control.ChangeSpeedCommand{TickPeriodMs: body.Speed})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, response)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	response, err := s.mediator.Send(r.Context(), control.EnvironmentQuery{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var cmd control.ReportBreakdownCommand
	if err := decodeBody(r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	response, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var cmd control.RepairVehicleCommand
	if err := decodeBody(r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	response, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var cmd control.SubmitOrderCommand
	if err := decodeBody(r, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	response, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, response)
}
