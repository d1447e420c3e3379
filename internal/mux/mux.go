package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	gmux "github.com/gorilla/mux"

	"bluffroom-server/internal/jwt"
	"bluffroom-server/pkg/model"
	"bluffroom-server/pkg/room"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxRoomKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config    config
	version   string
	recaptcha recaptcha
	pitBoss   *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

type config struct {
	// playerCreateDelay is the minimum duration between two player create events from a single remote address
	playerCreateDelay time.Duration
}

// NewMux returns a new HTTP mux
func NewMux(version string, playerCreateDelay time.Duration) *Mux {
	pitBoss := room.NewPitBoss()
	pitBoss.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		config: config{
			playerCreateDelay: playerCreateDelay,
		},
		recaptcha: newRecaptcha(),
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.postPlayer())
		r.Methods(http.MethodPost).Path("/player/auth").Handler(this.postPlayerAuth())
		r.Methods(http.MethodGet).Path("/player/auth/{jwt:.*}").Handler(this.getPlayerAuthJWT())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())

		rr := r.PathPrefix("/room/{code:[A-Z0-9]{6}}").Subrouter()
		rr.Use(this.roomMiddleware)

		rr.Methods(http.MethodGet).Path("").Handler(this.getRoomCode())
		rr.Methods(http.MethodPost).Path("/join").Handler(this.postRoomCodeJoin())
		rr.Methods(http.MethodGet).Path("/ws").Handler(this.getRoomCodeWS())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		player, err := model.GetPlayerByID(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set("BluffRoom-UserID", strconv.FormatInt(player.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func (m *Mux) roomMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := gmux.Vars(r)["code"]
		rm, err := model.GetRoomByCode(r.Context(), code)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxRoomKey, rm)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
