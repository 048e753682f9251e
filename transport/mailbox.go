// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Per-(source, tag) FIFO of received values. The sort protocol never has more than
// one outstanding message per (source, tag); the slack absorbs collectives that run
// back to back.
const boxCap = 16

type (
	mailboxes struct {
		closed chan struct{}
		err    error // cause, valid once closed
		boxes  []chan int64
		gone   []hangup // by source
		once   sync.Once
		world  int
	}
	// a source that will never send again
	hangup struct {
		ch   chan struct{}
		err  error // valid once ch is closed
		once sync.Once
	}
)

func newMailboxes(world int) *mailboxes {
	mb := &mailboxes{
		world:  world,
		boxes:  make([]chan int64, world*int(numTags)),
		gone:   make([]hangup, world),
		closed: make(chan struct{}),
	}
	for i := range mb.boxes {
		mb.boxes[i] = make(chan int64, boxCap)
	}
	for i := range mb.gone {
		mb.gone[i].ch = make(chan struct{})
	}
	return mb
}

func (mb *mailboxes) box(src int, tag Tag) chan int64 { return mb.boxes[src*int(numTags)+int(tag)] }

func (mb *mailboxes) put(ctx context.Context, src int, tag Tag, val int64) error {
	select {
	case mb.box(src, tag) <- val:
		return nil
	case <-mb.closed:
		return mb.err
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// values already delivered win over closure and over the source hanging up
func (mb *mailboxes) get(ctx context.Context, src int, tag Tag) (int64, error) {
	ch := mb.box(src, tag)
	select {
	case v := <-ch:
		return v, nil
	default:
	}
	var err error
	select {
	case v := <-ch:
		return v, nil
	case <-mb.closed:
		err = mb.err
	case <-mb.gone[src].ch:
		err = mb.gone[src].err
	case <-ctx.Done():
		return 0, errors.WithStack(ctx.Err())
	}
	select {
	case v := <-ch:
		return v, nil
	default:
		return 0, err
	}
}

// hangUp fails pending and future receives from src once its boxes are drained;
// receives from other sources are not affected.
func (mb *mailboxes) hangUp(src int, err error) {
	h := &mb.gone[src]
	h.once.Do(func() {
		h.err = err
		close(h.ch)
	})
}

func (mb *mailboxes) close(err error) {
	mb.once.Do(func() {
		if err == nil {
			err = ErrClosed
		}
		mb.err = err
		close(mb.closed)
	})
}
