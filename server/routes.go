package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

type LoginUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
	if err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

type Cors struct {
	handler http.Handler
}

func (c *Cors) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	c.handler.ServeHTTP(w, r)
}

type Logger struct {
	handler http.Handler
	logger  *log.Logger
}

func (l *Logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	l.handler.ServeHTTP(w, r)
	l.logger.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
}

type Router struct {
	addr     string
	broker   Broker
	repo     *Repository
	wsServer *Server
	auth     *Auth
	mux      http.Handler
}

const defaultRunLimit = 50

// NewRouter wires the account, run history and websocket endpoints.
func NewRouter(addr string, broker Broker, repo *Repository, wsServer *Server, auth *Auth) *Router {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", auth.Middleware(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(wsServer, w, r)
	}))

	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		user, ok := decodeLogin(w, r)
		if !ok {
			return
		}
		if repo.FindUserByName(user.Username) != nil {
			respondWithError(w, http.StatusConflict, "Username is taken")
			return
		}
		hash, err := GeneratePassword(user.Password)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Could not hash password")
			return
		}
		if _, err := repo.AddUser(user.Username, hash); err != nil {
			log.Println(err)
			respondWithError(w, http.StatusInternalServerError, "Could not create user")
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]string{
			"status":  "success",
			"message": "User registered successfully",
		})
	})

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		login, ok := decodeLogin(w, r)
		if !ok {
			return
		}
		user := repo.FindUserByName(login.Username)
		if user == nil || !user.Password.Valid {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if valid, err := ValidatePassword(login.Password, user.Password.String); err != nil || !valid {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		token, err := auth.CreateToken(user)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Could not create token")
			return
		}
		respondWithJSON(w, http.StatusOK, token)
	})

	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		runs, err := repo.ListRuns(limit)
		if err != nil {
			log.Println(err)
			respondWithError(w, http.StatusInternalServerError, "Could not list runs")
			return
		}
		respondWithJSON(w, http.StatusOK, runs)
	})

	mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		run, err := repo.FindRun(r.PathValue("id"))
		if err != nil {
			log.Println(err)
			respondWithError(w, http.StatusInternalServerError, "Could not load run")
			return
		}
		if run == nil {
			respondWithError(w, http.StatusNotFound, "No run with that id")
			return
		}
		respondWithJSON(w, http.StatusOK, run)
	})

	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("/", fs)

	logger := log.New(os.Stderr, "[http]: ", log.LstdFlags)
	return &Router{
		addr:     addr,
		broker:   broker,
		repo:     repo,
		wsServer: wsServer,
		auth:     auth,
		mux:      &Logger{&Cors{mux}, logger},
	}
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (LoginUser, bool) {
	var user LoginUser
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return user, false
	}
	if user.Username == "" || user.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return user, false
	}
	return user, true
}

func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) Run() {
	go r.wsServer.Run()
	log.Printf("http server started on %s", r.addr)
	log.Fatal(http.ListenAndServe(r.addr, r.mux))
}
