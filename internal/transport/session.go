package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/carli2/speech-server/internal/config"
	"github.com/carli2/speech-server/pkg/audio"
	"github.com/carli2/speech-server/pkg/codec"
)

// endSentinel is the text message a client may send to end the stream
// without closing the WebSocket abruptly.
const endSentinel = "__END__"

// handshakeTimeout bounds the wait for the client's opening message.
const handshakeTimeout = 5 * time.Second

// frameBytes is one codec frame of s16le PCM.
const frameBytes = codec.FrameSamples * 2

// helloRequest is the client's opening text message.
type helloRequest struct {
	Type     string   `json:"type"`
	Profiles []string `json:"profiles"`
}

// helloResponse announces the negotiated profile and session id.
type helloResponse struct {
	Type      string `json:"type"`
	Profile   string `json:"profile"`
	SessionID string `json:"session_id"`
}

// Session is one WebSocket <-> pipeline connection. The RX loop decodes
// incoming codec frames to PCM; the TX loop encodes queued PCM into codec
// frames and sends them. Both directions use the profile negotiated in
// the opening handshake.
type Session struct {
	id  string
	cfg *config.TransportConfig
	log *zap.Logger
	enc *codec.Encoder

	rx chan []byte // decoded s16le PCM, one codec frame each
	tx chan []byte // s16le PCM awaiting encode, arbitrary chunk sizes

	profileMu sync.RWMutex
	profile   string

	connected chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session ready for Run. Readers may consume RX and
// call Send immediately; data flows once the connection is up.
func NewSession(id string, cfg *config.TransportConfig, logger *zap.Logger) *Session {
	return &Session{
		id:        id,
		cfg:       cfg,
		log:       logger.With(zap.String("session", id)),
		enc:       codec.NewEncoder(),
		rx:        make(chan []byte, cfg.QueueDepth),
		tx:        make(chan []byte, cfg.QueueDepth),
		connected: make(chan struct{}),
		closed:    make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns the negotiated profile name, or "" before the handshake.
func (s *Session) Profile() string {
	s.profileMu.RLock()
	defer s.profileMu.RUnlock()
	return s.profile
}

// RX yields decoded PCM frames received from the peer.
func (s *Session) RX() <-chan []byte { return s.rx }

// Connected is closed once the handshake has completed.
func (s *Session) Connected() <-chan struct{} { return s.connected }

// Closed is closed when the session has ended.
func (s *Session) Closed() <-chan struct{} { return s.closed }

// Send queues s16le PCM for encoding. When the TX queue is full the
// oldest chunk is dropped, keeping latency bounded for realtime streams.
func (s *Session) Send(pcm []byte) error {
	select {
	case <-s.closed:
		return errors.New("transport: session closed")
	default:
	}
	for {
		select {
		case s.tx <- pcm:
			return nil
		default:
		}
		select {
		case <-s.tx:
			s.log.Debug("TX queue full, dropping oldest chunk")
		default:
		}
	}
}

// Close ends the session. Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

// Run performs the handshake and then pumps both directions until the
// connection or the session ends. It always closes the session.
func (s *Session) Run(ctx context.Context, conn *websocket.Conn) error {
	defer s.Close()

	if err := s.handshake(ctx, conn); err != nil {
		return fmt.Errorf("transport: handshake: %w", err)
	}
	close(s.connected)
	s.log.Info("session connected", zap.String("profile", s.Profile()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.rxLoop(ctx, conn)
	}()

	s.txLoop(ctx, conn)
	cancel()
	wg.Wait()

	return nil
}

// handshake negotiates the profile. The client opens with a hello listing
// the profiles it supports; any other first message selects the server's
// first preference (backward compatible). A client that sends nothing
// within the timeout loses the connection.
func (s *Session) handshake(ctx context.Context, conn *websocket.Conn) error {
	helloCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	defer cancel()

	typ, data, err := conn.Read(helloCtx)
	if err != nil {
		return err
	}

	var clientProfiles []string
	if typ == websocket.MessageText {
		var hello helloRequest
		if jsonErr := json.Unmarshal(data, &hello); jsonErr == nil && hello.Type == "hello" {
			for _, p := range hello.Profiles {
				if _, ok := codec.Profiles[p]; ok {
					clientProfiles = append(clientProfiles, p)
				}
			}
		}
	}

	chosen := negotiateProfile(s.cfg.Profiles, clientProfiles)
	s.profileMu.Lock()
	s.profile = chosen
	s.profileMu.Unlock()

	resp, err := json.Marshal(helloResponse{Type: "hello", Profile: chosen, SessionID: s.id})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, resp)
}

// negotiateProfile picks the first server preference the client also
// supports; when the client lists nothing or shares no profile with the
// server, it returns the server's first preference.
func negotiateProfile(serverPrefs, clientProfiles []string) string {
	if len(clientProfiles) > 0 {
		for _, sp := range serverPrefs {
			for _, cp := range clientProfiles {
				if sp == cp {
					return sp
				}
			}
		}
	}
	return serverPrefs[0]
}

// rxLoop receives encoded frames, decodes them and queues the PCM. Bad
// frames are logged and dropped; the stream must keep flowing.
func (s *Session) rxLoop(ctx context.Context, conn *websocket.Conn) {
	count := 0
	defer func() {
		s.log.Info("RX loop ended", zap.Int("frames", count))
		s.Close()
	}()

	for {
		select {
		case <-s.closed:
			return
		default:
		}

		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ == websocket.MessageText {
			if string(data) == endSentinel {
				s.log.Info("RX received end sentinel")
				return
			}
			continue
		}

		samples, _, err := codec.DecodeFrame(data)
		if err != nil {
			s.log.Debug("RX decode error", zap.Error(err))
			continue
		}
		select {
		case s.rx <- audio.Float32ToPCMS16LE(samples):
			count++
		default:
			// Consumer fell behind; drop the frame.
		}
	}
}

// txLoop accumulates queued PCM into whole codec frames, encodes and
// sends them. On shutdown a partial frame is zero-padded and flushed.
func (s *Session) txLoop(ctx context.Context, conn *websocket.Conn) {
	var buf []byte
	defer s.Close()

	flush := func(chunk []byte) bool {
		encoded, err := s.enc.Encode(audio.PCMS16LEToFloat32(chunk), s.Profile())
		if err != nil {
			s.log.Error("TX encode error", zap.Error(err))
			return false
		}
		if err := conn.Write(ctx, websocket.MessageBinary, encoded); err != nil {
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			if len(buf) > 0 {
				padded := make([]byte, frameBytes)
				copy(padded, buf)
				flush(padded)
			}
			return
		case data := <-s.tx:
			buf = append(buf, data...)
			for len(buf) >= frameBytes {
				if !flush(buf[:frameBytes]) {
					return
				}
				buf = buf[frameBytes:]
			}
		}
	}
}
