// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oesort/oesort/cmn/cos"
	"github.com/oesort/oesort/cmn/debug"
	"github.com/oesort/oesort/cmn/nlog"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	PathWS     = "/v1/oets/ws"
	PathHealth = "/v1/health"
)

const (
	dfltDialTimeout      = 30 * time.Second
	dfltHandshakeTimeout = 10 * time.Second
	dialRetryMin         = 50 * time.Millisecond
	dialRetryMax         = 2 * time.Second
	closeTimeout         = time.Second
)

type (
	MeshConfig struct {
		Listener net.Listener                    // optional; when nil, listens on Peers[Rank]
		Mux      *http.ServeMux                  // optional, to serve extra routes (e.g. /metrics)
		Wrap     func(http.Handler) http.Handler // optional middleware (e.g. tracing)
		Job      string
		Peers    []string // host:port by rank
		Rank     int
		// total time to establish all links
		DialTimeout time.Duration
		// per-connection websocket upgrade
		HandshakeTimeout time.Duration
	}

	// Mesh is a websocket-connected process group. Each rank links with its
	// neighbors (r-1, r+1) and with rank 0; the higher rank of a pair dials.
	Mesh struct {
		ln       net.Listener
		srv      *http.Server
		boxes    *mailboxes
		ready    chan struct{} // closed when all links are up
		upgrader websocket.Upgrader
		links    []*link // by peer rank
		conf     MeshConfig
		stats    Stats
		rxg      errgroup.Group // read loops
		mu       sync.Mutex
		pending  int // links yet to be established
		closing  atomic.Bool
	}

	link struct {
		conn *websocket.Conn
		buf  []byte
		seq  int64 // last sent, under wmu
		rseq int64 // last received, read loop only
		peer int
		wmu  sync.Mutex
	}

	health struct {
		Job   string `json:"job"`
		Rank  int    `json:"rank"`
		World int    `json:"world"`
		Links int    `json:"links"`
		Ready bool   `json:"ready"`
	}
)

// interface guard
var _ Comm = (*Mesh)(nil)

// lower ranks that rank dials
func dialTargets(rank int) []int {
	switch rank {
	case 0:
		return nil
	case 1:
		return []int{0}
	default:
		return []int{rank - 1, 0}
	}
}

// higher ranks expected to dial in
func acceptFrom(rank, world int) (peers []int) {
	if rank == 0 {
		for r := 1; r < world; r++ {
			peers = append(peers, r)
		}
		return peers
	}
	if rank+1 < world {
		peers = append(peers, rank+1)
	}
	return peers
}

// NewMesh starts serving the peer endpoint; call Connect to establish the links.
func NewMesh(conf MeshConfig) (*Mesh, error) {
	world := len(conf.Peers)
	if world < 2 {
		return nil, errors.Errorf("mesh requires at least 2 peers, got %d", world)
	}
	if conf.Rank < 0 || conf.Rank >= world {
		return nil, errRank("own", conf.Rank, world)
	}
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = dfltDialTimeout
	}
	if conf.HandshakeTimeout <= 0 {
		conf.HandshakeTimeout = dfltHandshakeTimeout
	}
	m := &Mesh{
		conf:  conf,
		boxes: newMailboxes(world),
		ready: make(chan struct{}),
		links: make([]*link, world),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: conf.HandshakeTimeout,
			ReadBufferSize:   cos.KiB,
			WriteBufferSize:  cos.KiB,
		},
	}
	m.pending = len(dialTargets(conf.Rank)) + len(acceptFrom(conf.Rank, world))

	m.ln = conf.Listener
	if m.ln == nil {
		ln, err := net.Listen("tcp", conf.Peers[conf.Rank])
		if err != nil {
			return nil, errors.Wrapf(err, "rank %d: listen", conf.Rank)
		}
		m.ln = ln
	}
	mux := conf.Mux
	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.HandleFunc(PathWS, m.rxHandler)
	mux.HandleFunc(PathHealth, m.healthHandler)
	var handler http.Handler = mux
	if conf.Wrap != nil {
		handler = conf.Wrap(mux)
	}
	m.srv = &http.Server{Handler: handler, ReadHeaderTimeout: conf.HandshakeTimeout}
	go m.serve()
	return m, nil
}

func (m *Mesh) serve() {
	if err := m.srv.Serve(m.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		nlog.Errorln("rank", m.conf.Rank, "serve:", err)
		m.boxes.close(err)
	}
}

func (m *Mesh) Rank() int     { return m.conf.Rank }
func (m *Mesh) Size() int     { return len(m.conf.Peers) }
func (m *Mesh) Stats() *Stats { return &m.stats }
func (m *Mesh) Addr() string  { return m.ln.Addr().String() }

// Connect dials lower-ranked peers (retrying while they start up) and waits for
// higher-ranked ones to dial in, all within the configured dial timeout.
func (m *Mesh) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.conf.DialTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, peer := range dialTargets(m.conf.Rank) {
		g.Go(func() error { return m.dial(gctx, peer) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	select {
	case <-m.ready:
		if nlog.V(4) {
			nlog.Infoln("rank", m.conf.Rank, "linked with", m.linked())
		}
		return nil
	case <-ctx.Done():
		missing := m.missing()
		return newErrPeer("accept", m.conf.Rank, missing[0], errors.Wrapf(ctx.Err(), "waiting for %v", missing))
	}
}

func (m *Mesh) dial(ctx context.Context, peer int) error {
	var (
		url    = "ws://" + m.conf.Peers[peer] + PathWS
		hdr    = make(http.Header, 3)
		sleep  = dialRetryMin
		dialer = websocket.Dialer{
			HandshakeTimeout: m.conf.HandshakeTimeout,
			ReadBufferSize:   cos.KiB,
			WriteBufferSize:  cos.KiB,
		}
	)
	hdr.Set(cos.HdrJob, m.conf.Job)
	hdr.Set(cos.HdrRank, strconv.Itoa(m.conf.Rank))
	hdr.Set(cos.HdrWorld, strconv.Itoa(m.Size()))
	for {
		conn, resp, err := dialer.DialContext(ctx, url, hdr)
		if resp != nil && resp.Body != nil {
			cos.Close(resp.Body)
		}
		if err == nil {
			return m.addLink(peer, conn)
		}
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return newErrPeer("dial", m.conf.Rank, peer, ErrJobMismatch)
		}
		if nlog.V(4) {
			nlog.Infoln("rank", m.conf.Rank, "dial", peer, "retry in", sleep, "err:", err)
		}
		select {
		case <-ctx.Done():
			return newErrPeer("dial", m.conf.Rank, peer, errors.Wrap(err, "giving up"))
		case <-time.After(sleep):
		}
		sleep = min(2*sleep, dialRetryMax)
	}
}

func (m *Mesh) rxHandler(w http.ResponseWriter, r *http.Request) {
	peer, err := m.checkHello(r.Header)
	if err != nil {
		nlog.Warningln("rank", m.conf.Rank, "rejecting", r.RemoteAddr+":", err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		nlog.Errorln("rank", m.conf.Rank, "upgrade from peer", peer, "failed:", err)
		return
	}
	if err := m.addLink(peer, conn); err != nil {
		nlog.Errorln(err)
		conn.Close()
	}
}

func (m *Mesh) checkHello(hdr http.Header) (peer int, err error) {
	if job := hdr.Get(cos.HdrJob); job != m.conf.Job {
		return 0, errors.Wrapf(ErrJobMismatch, "job %q vs %q", job, m.conf.Job)
	}
	if world := hdr.Get(cos.HdrWorld); world != strconv.Itoa(m.Size()) {
		return 0, errors.Wrapf(ErrJobMismatch, "world size %s vs %d", world, m.Size())
	}
	if peer, err = strconv.Atoi(hdr.Get(cos.HdrRank)); err != nil {
		return 0, errors.Wrap(ErrJobMismatch, "missing or invalid rank")
	}
	if !slices.Contains(acceptFrom(m.conf.Rank, m.Size()), peer) {
		return 0, errors.Wrapf(ErrJobMismatch, "unexpected peer rank %d", peer)
	}
	return peer, nil
}

func (m *Mesh) addLink(peer int, conn *websocket.Conn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closing.Load() {
		conn.Close()
		return ErrClosed
	}
	if m.links[peer] != nil {
		return errors.Errorf("rank %d: duplicate link with peer %d", m.conf.Rank, peer)
	}
	lnk := &link{conn: conn, peer: peer}
	m.links[peer] = lnk
	m.pending--
	debug.Assert(m.pending >= 0)
	if m.pending == 0 {
		close(m.ready)
	}
	m.rxg.Go(func() error { return m.readLoop(lnk) })
	return nil
}

func (m *Mesh) link(peer int) (*link, error) {
	if peer < 0 || peer >= m.Size() || peer == m.conf.Rank {
		return nil, errRank("peer", peer, m.Size())
	}
	m.mu.Lock()
	lnk := m.links[peer]
	m.mu.Unlock()
	if lnk == nil {
		return nil, newErrPeer("lookup", m.conf.Rank, peer, ErrNoLink)
	}
	return lnk, nil
}

func (m *Mesh) linked() (peers []int) {
	m.mu.Lock()
	for r, lnk := range m.links {
		if lnk != nil {
			peers = append(peers, r)
		}
	}
	m.mu.Unlock()
	return peers
}

func (m *Mesh) missing() (peers []int) {
	expected := append(dialTargets(m.conf.Rank), acceptFrom(m.conf.Rank, m.Size())...)
	m.mu.Lock()
	for _, r := range expected {
		if m.links[r] == nil {
			peers = append(peers, r)
		}
	}
	m.mu.Unlock()
	if len(peers) == 0 {
		peers = append(peers, -1)
	}
	return peers
}

// Frames from a given peer arrive in order (one TCP connection per pair);
// a broken link fails all pending and future receives.
func (m *Mesh) readLoop(lnk *link) error {
	for {
		_, b, err := lnk.conn.ReadMessage()
		if err != nil {
			if m.closing.Load() {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// done or failed, the peer sends nothing more
				if nlog.V(4) {
					nlog.Infoln("rank", m.conf.Rank, "peer", lnk.peer, "hung up")
				}
				m.boxes.hangUp(lnk.peer, errors.WithStack(ErrPeerClosed))
				return nil
			}
			return m.fail(newErrPeer("read", m.conf.Rank, lnk.peer, err))
		}
		var f frame
		if _, err := f.UnmarshalMsg(b); err != nil {
			return m.fail(newErrPeer("read", m.conf.Rank, lnk.peer, err))
		}
		if int(f.Src) != lnk.peer || !f.Tag.valid() {
			err := errors.Errorf("bad frame [tag %s, src %d, seq %d]", f.Tag, f.Src, f.Seq)
			return m.fail(newErrPeer("read", m.conf.Rank, lnk.peer, err))
		}
		lnk.rseq++
		debug.Assertf(f.Seq == lnk.rseq, "peer %d: seq %d, expected %d", lnk.peer, f.Seq, lnk.rseq)
		if err := m.boxes.put(context.Background(), lnk.peer, f.Tag, f.Val); err != nil {
			return nil // closed
		}
	}
}

func (m *Mesh) fail(err error) error {
	nlog.Errorln(err)
	m.boxes.close(err)
	return err
}

func (m *Mesh) Send(ctx context.Context, dst int, tag Tag, val int64) error {
	lnk, err := m.link(dst)
	if err != nil {
		return err
	}
	if err := lnk.send(ctx, m.conf.Rank, tag, val); err != nil {
		return newErrPeer("send", m.conf.Rank, dst, err)
	}
	m.stats.Sent.Add(1)
	return nil
}

func (m *Mesh) Recv(ctx context.Context, src int, tag Tag) (int64, error) {
	if _, err := m.link(src); err != nil {
		return 0, err
	}
	v, err := m.boxes.get(ctx, src, tag)
	if err != nil {
		return 0, newErrPeer("recv", m.conf.Rank, src, err)
	}
	m.stats.Recv.Add(1)
	return v, nil
}

func (m *Mesh) Barrier(ctx context.Context) error { return barrier(ctx, m) }

func (m *Mesh) AllReduce(ctx context.Context, op Op, val int64) (int64, error) {
	return allReduce(ctx, m, op, val)
}

// Close says goodbye to all peers and stops serving; idempotent.
func (m *Mesh) Close() error {
	if !m.closing.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	links := slices.Clone(m.links)
	m.mu.Unlock()

	deadline := time.Now().Add(closeTimeout)
	for _, lnk := range links {
		if lnk == nil {
			continue
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
		if err := lnk.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil && nlog.V(4) {
			nlog.Infoln("rank", m.conf.Rank, "close peer", lnk.peer, "err:", err)
		}
		lnk.conn.Close()
	}
	m.boxes.close(ErrClosed)
	err := m.srv.Close()
	m.rxg.Wait()
	return err
}

func (m *Mesh) healthHandler(w http.ResponseWriter, _ *http.Request) {
	var (
		linked = m.linked()
		h      = health{Job: m.conf.Job, Rank: m.conf.Rank, World: m.Size(), Links: len(linked)}
	)
	select {
	case <-m.ready:
		h.Ready = true
	default:
	}
	w.Header().Set(cos.HdrContentType, cos.ContentJSON)
	w.Write(cos.MustMarshal(h))
}

//
// link
//

func (lnk *link) send(ctx context.Context, src int, tag Tag, val int64) (err error) {
	if err = ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	lnk.wmu.Lock()
	defer lnk.wmu.Unlock()
	lnk.seq++
	f := frame{Tag: tag, Src: int32(src), Seq: lnk.seq, Val: val}
	lnk.buf, err = f.MarshalMsg(lnk.buf[:0])
	debug.AssertNoErr(err)

	var deadline time.Time // zero: none
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	if err = lnk.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return lnk.conn.WriteMessage(websocket.BinaryMessage, lnk.buf)
}
