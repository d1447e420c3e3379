package mux

import (
	"errors"
	"net/http"

	"bluffroom-server/pkg/model"
)

type getRoomCodeResponse struct {
	*model.Room
	Players []*model.RoomPlayer `json:"players"`
}

func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		rm, err := player.CreateRoom(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		players, err := rm.GetPlayers(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, getRoomCodeResponse{
			Room:    rm,
			Players: players,
		})
	}
}

func (m *Mux) getRoomCode() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*model.Room)
		players, err := rm.GetPlayers(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, getRoomCodeResponse{
			Room:    rm,
			Players: players,
		})
	})
}

func (m *Mux) postRoomCodeJoin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		rm := r.Context().Value(ctxRoomKey).(*model.Room)

		if err := rm.AddPlayer(r.Context(), player.ID); err != nil {
			var ue model.UserError
			if errors.As(err, &ue) {
				writeJSONError(w, http.StatusConflict, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		players, err := rm.GetPlayers(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, getRoomCodeResponse{
			Room:    rm,
			Players: players,
		})
	})
}
