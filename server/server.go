package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/tidwall/gjson"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/config"
	"github.com/SvenDH/chess-nonogram/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	JobSubmitAction   = "job.submit"
	JobAcceptedAction = "job.accepted"
	JobProgressAction = "job.progress"
	JobDoneAction     = "job.done"
	JobCancelAction   = "job.cancel"
	JobWatchAction    = "job.watch"
	JobErrorAction    = "job.error"
)

type Message struct {
	Type   string `json:"type"`
	Data   any    `json:"data,omitempty"`
	Target string `json:"target,omitempty"`
	Sender string `json:"sender,omitempty"`
}

func (message *Message) encode() []byte {
	data, _ := json.Marshal(message)
	return data
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Subscriber struct {
	Channel chan []byte
	topics  int
}

type Broker interface {
	Subscribe(ctx context.Context, channels ...string) *Subscriber
	Unsubscribe(ctx context.Context, sub *Subscriber, channels ...string)
	Publish(ctx context.Context, topic string, message []byte) error
	Close()
}

type MemoryBroker struct {
	subscribers map[string][]*Subscriber
	mutex       sync.Mutex
}

func NewMemoryBroker() Broker {
	return &MemoryBroker{subscribers: make(map[string][]*Subscriber)}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channels ...string) *Subscriber {
	sub := &Subscriber{Channel: make(chan []byte, 16)}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for _, t := range channels {
		b.subscribers[t] = append(b.subscribers[t], sub)
		sub.topics++
	}
	return sub
}

// Unsubscribe removes sub from channels. Its Channel is closed once it has
// no topics left.
func (b *MemoryBroker) Unsubscribe(ctx context.Context, sub *Subscriber, channels ...string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.unsubscribe(sub, channels...)
}

func (b *MemoryBroker) unsubscribe(sub *Subscriber, channels ...string) {
	for _, t := range channels {
		subscribers, found := b.subscribers[t]
		if !found {
			continue
		}
		var newSubscribers []*Subscriber
		for _, subscriber := range subscribers {
			if subscriber != sub {
				newSubscribers = append(newSubscribers, subscriber)
			}
		}
		if len(newSubscribers) == len(subscribers) {
			continue
		}
		if len(newSubscribers) == 0 {
			delete(b.subscribers, t)
		} else {
			b.subscribers[t] = newSubscribers
		}
		sub.topics--
		if sub.topics == 0 {
			close(sub.Channel)
		}
	}
}

// Publish delivers msg to every subscriber of channel. A subscriber that
// cannot take the message within a second is dropped from the channel.
func (b *MemoryBroker) Publish(ctx context.Context, channel string, msg []byte) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	var slow []*Subscriber
	for _, sub := range b.subscribers[channel] {
		select {
		case sub.Channel <- msg:
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			log.Printf("Subscriber slow. Unsubscribing from channel: %s", channel)
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		b.unsubscribe(sub, channel)
	}
	return nil
}

func (b *MemoryBroker) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	for topic, subscribers := range b.subscribers {
		for _, sub := range subscribers {
			b.unsubscribe(sub, topic)
		}
	}
}

// Progress is the payload of a job.progress message.
type Progress struct {
	Generation int     `json:"generation"`
	Best       int     `json:"best"`
	Average    float64 `json:"average"`
	Worst      int     `json:"worst"`
	ElapsedMs  int64   `json:"elapsed_ms"`
}

// Result is the payload of a job.done message.
type Result struct {
	Id        string      `json:"id"`
	Board     string      `json:"board"`
	Report    game.Report `json:"report"`
	Cancelled bool        `json:"cancelled,omitempty"`
}

// Job is one evolutionary search running on behalf of a client.
type Job struct {
	Id       string
	Owner    string
	server   *Server
	puzzle   *game.Puzzle
	settings config.Settings
	seed     int64
	ctx      context.Context
	cancel   context.CancelFunc
}

func (job *Job) Run() {
	defer job.server.removeJob(job)
	defer job.cancel()

	cfg := job.settings.Search
	eval := job.settings.Evaluator(job.puzzle)
	es := ai.NewEvolutionarySearch(job.puzzle, eval, cfg, rand.New(rand.NewSource(job.seed)))
	every := max(job.server.ProgressEvery, 1)
	es.OnGeneration = func(stats ai.Stats, _ ai.Individual) {
		if stats.Generation%every != 0 && stats.Generation != cfg.Generations {
			return
		}
		job.publish(&Message{Type: JobProgressAction, Target: job.Id, Data: &Progress{
			Generation: stats.Generation,
			Best:       stats.Best,
			Average:    stats.Average,
			Worst:      stats.Worst,
			ElapsedMs:  stats.Elapsed.Milliseconds(),
		}})
	}

	es.Run(job.ctx)
	best := es.Finish()
	report := eval.Report(best.Genes)
	board := game.BoardString(job.puzzle, best.Genes, game.FormatOptions{Fill: job.settings.Fill})

	var image strings.Builder
	game.WriteImage(&image, job.puzzle.Image)
	run := &Run{
		Id:          job.Id,
		Owner:       job.Owner,
		Created:     time.Now().UTC(),
		Rows:        job.puzzle.Image.Rows(),
		Cols:        job.puzzle.Image.Width(),
		Generations: es.Generation(),
		Score:       report.Score,
		Pieces:      report.Pieces,
		Image:       image.String(),
		Board:       board,
	}
	if err := job.server.repository.SaveRun(run); err != nil {
		log.Printf("Saving run %s: %v", job.Id, err)
	}
	job.publish(&Message{Type: JobDoneAction, Target: job.Id, Data: &Result{
		Id:        job.Id,
		Board:     board,
		Report:    report,
		Cancelled: job.ctx.Err() != nil,
	}})
}

func (job *Job) publish(message *Message) {
	if err := job.server.broker.Publish(context.Background(), job.Id, message.encode()); err != nil {
		log.Println(err)
	}
}

type Client struct {
	Name    string
	conn    *websocket.Conn
	server  *Server
	send    chan []byte
	subs    map[string]*Subscriber
	done    chan struct{}
	stopped chan struct{}
	mu      sync.Mutex
	wg      sync.WaitGroup
}

func newClient(conn *websocket.Conn, server *Server, name string) *Client {
	return &Client{
		Name:    name,
		conn:    conn,
		server:  server,
		send:    make(chan []byte, 256),
		subs:    make(map[string]*Subscriber),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (client *Client) readPump() {
	defer func() {
		client.disconnect()
	}()
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error { client.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, jsonMessage, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("unexpected close error: %v", err)
			}
			break
		}
		client.handleNewMessage(jsonMessage)
	}
}

func (client *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(client.stopped)
		client.conn.Close()
	}()
	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := client.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Attach queued messages to the current websocket message.
			n := len(client.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-client.send)
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (client *Client) disconnect() {
	client.server.unregister <- client
	client.mu.Lock()
	for id, sub := range client.subs {
		client.server.broker.Unsubscribe(context.TODO(), sub, id)
	}
	client.subs = map[string]*Subscriber{}
	client.mu.Unlock()
	close(client.done)
	client.wg.Wait()
	close(client.send)
	client.conn.Close()
}

func ServeWs(wsServer *Server, w http.ResponseWriter, r *http.Request) {
	userCtxValue := r.Context().Value(UserContextKey)
	if userCtxValue == nil {
		log.Println("Not authenticated")
		return
	}
	user := userCtxValue.(string)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	client := newClient(conn, wsServer, user)

	go client.writePump()
	go client.readPump()

	wsServer.register <- client
}

func (client *Client) handleNewMessage(jsonMessage []byte) {
	if !gjson.ValidBytes(jsonMessage) {
		client.sendError("", "invalid JSON message")
		return
	}
	msg := gjson.ParseBytes(jsonMessage)
	data := msg.Get("data")
	switch msg.Get("type").String() {
	case JobSubmitAction:
		client.handleSubmit(data)
	case JobWatchAction:
		client.handleWatch(data.String())
	case JobCancelAction:
		client.handleCancel(data.String())
	default:
		client.sendError("", fmt.Sprintf("unknown message type %q", msg.Get("type").String()))
	}
}

func (client *Client) handleSubmit(data gjson.Result) {
	req, err := config.ParseRequest(data)
	if err != nil {
		client.sendError("", err.Error())
		return
	}
	job, err := client.server.newJob(client.Name, req)
	if err != nil {
		client.sendError("", err.Error())
		return
	}
	client.watch(job.Id)
	if !client.deliver((&Message{Type: JobAcceptedAction, Target: job.Id, Data: job.Id}).encode()) {
		client.unwatch(job.Id)
		client.server.removeJob(job)
		job.cancel()
		return
	}
	go job.Run()
}

func (client *Client) handleWatch(id string) {
	if client.server.findJob(id) == nil {
		client.sendError(id, "no running job with that id")
		return
	}
	client.watch(id)
}

func (client *Client) handleCancel(id string) {
	job := client.server.findJob(id)
	if job == nil {
		client.sendError(id, "no running job with that id")
		return
	}
	if job.Owner != client.Name {
		client.sendError(id, "only the owner can cancel a job")
		return
	}
	job.cancel()
}

// watch forwards the messages published for job id to the client.
func (client *Client) watch(id string) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if _, ok := client.subs[id]; ok {
		return
	}
	sub := client.server.broker.Subscribe(context.TODO(), id)
	client.subs[id] = sub
	client.wg.Add(1)
	go func() {
		defer client.wg.Done()
		for msg := range sub.Channel {
			if !client.deliver(msg) {
				return
			}
			if gjson.GetBytes(msg, "type").String() == JobDoneAction {
				client.unwatch(id)
			}
		}
	}()
}

func (client *Client) unwatch(id string) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if sub, ok := client.subs[id]; ok {
		delete(client.subs, id)
		client.server.broker.Unsubscribe(context.TODO(), sub, id)
	}
}

func (client *Client) sendError(target, text string) {
	client.deliver((&Message{Type: JobErrorAction, Target: target, Data: text}).encode())
}

// deliver queues message for the write pump. It gives up once the client
// disconnects or the write pump has stopped.
func (client *Client) deliver(message []byte) bool {
	select {
	case client.send <- message:
		return true
	case <-client.done:
	case <-client.stopped:
	}
	return false
}

type Server struct {
	clients    map[*Client]bool
	jobs       map[string]*Job
	register   chan *Client
	unregister chan *Client
	repository *Repository
	broker     Broker
	settings   config.Settings
	mutex      sync.Mutex

	Limits        config.Limits
	ProgressEvery int
}

func NewWebsocketServer(broker Broker, repository *Repository, settings config.Settings) *Server {
	return &Server{
		clients:       make(map[*Client]bool),
		jobs:          make(map[string]*Job),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		repository:    repository,
		broker:        broker,
		settings:      settings,
		Limits:        config.Limits{Generations: 5000, Population: 200, Cells: 64 * 64, SearchLimit: 2000},
		ProgressEvery: 10,
	}
}

func (server *Server) Run() {
	for {
		select {
		case client := <-server.register:
			server.registerClient(client)
		case client := <-server.unregister:
			server.unregisterClient(client)
		}
	}
}

func (server *Server) registerClient(client *Client) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	server.clients[client] = true
}

func (server *Server) unregisterClient(client *Client) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	delete(server.clients, client)
}

func (server *Server) newJob(owner string, req config.Request) (*Job, error) {
	settings, err := req.Apply(server.settings, server.Limits)
	if err != nil {
		return nil, err
	}
	settings.Search.LogEvery = 0
	p, err := settings.Puzzle(req.Image)
	if err != nil {
		return nil, err
	}
	seed := req.Seed
	if !req.HasSeed {
		seed = time.Now().UnixNano()
	}
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		Id:       ulid.Make().String(),
		Owner:    owner,
		server:   server,
		puzzle:   p,
		settings: settings,
		seed:     seed,
		ctx:      ctx,
		cancel:   cancel,
	}
	server.mutex.Lock()
	server.jobs[job.Id] = job
	server.mutex.Unlock()
	return job, nil
}

func (server *Server) findJob(id string) *Job {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	return server.jobs[id]
}

func (server *Server) removeJob(job *Job) {
	server.mutex.Lock()
	defer server.mutex.Unlock()
	delete(server.jobs, job.Id)
}
