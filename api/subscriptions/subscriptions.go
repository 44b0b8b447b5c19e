// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/log"
)

const (
	// time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

var logger = log.WithContext("pkg", "subscriptions")

type msgReader interface {
	Read() ([]any, error)
}

type Subscriptions struct {
	backtraceLimit uint64
	repo           *chain.Repository
	upgrader       *websocket.Upgrader
	done           chan struct{}
	closeOnce      sync.Once
	wg             sync.WaitGroup
}

// New creates the subscription handlers. Subscribers may start at most
// backtraceLimit blocks behind the best block.
func New(repo *chain.Repository, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		repo:           repo,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePosition resolves the pos query to the number of the first block to push.
// An empty pos means the next block.
func (s *Subscriptions) parsePosition(pos string) (uint64, error) {
	best := s.repo.BestNumber()
	if pos == "" {
		return best + 1, nil
	}
	num, err := strconv.ParseUint(pos, 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if num > best+1 {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if best-min(num, best) > s.backtraceLimit {
		return 0, utils.HTTPError(errors.New("pos: backtrace limit exceeded"), http.StatusForbidden)
	}
	first := s.repo.GenesisHash()
	genesis, err := s.repo.GetBlock(first)
	if err != nil {
		return 0, err
	}
	if num < genesis.NumberU64() {
		return 0, utils.BadRequest(errors.New("pos: before the first known block"))
	}
	return num, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var reader msgReader
	switch mux.Vars(req)["subject"] {
	case "block":
		pos, err := s.parsePosition(req.URL.Query().Get("pos"))
		if err != nil {
			return err
		}
		reader = newBlockReader(s.repo, pos)
	default:
		return utils.NotFound(errors.New("unknown subject"))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	// a read loop is required to handle control frames
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, reader, closed); err != nil {
		logger.Debug("websocket pipe", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed <-chan struct{}) error {
	ticker := s.repo.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if len(msgs) >= maxBatch {
			// more to read without waiting
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close terminates every open subscription and waits for the handlers to return.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("subscriptions_subscribe").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
