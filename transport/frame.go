// Package transport provides the process group for distributed odd-even sort:
// point-to-point int64 messages between ranks plus barrier and all-reduce.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"github.com/tinylib/msgp/msgp"
)

// On the wire, each websocket binary message carries exactly one frame:
// a msgpack array [tag uint8, src int32, seq int64, val int64].
const frameFields = 4

type frame struct {
	Seq int64 // per-link, starting at 1
	Val int64
	Src int32
	Tag Tag
}

func (z *frame) Msgsize() int {
	return msgp.ArrayHeaderSize + msgp.Uint8Size + msgp.Int32Size + 2*msgp.Int64Size
}

func (z *frame) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, frameFields)
	o = msgp.AppendUint8(o, uint8(z.Tag))
	o = msgp.AppendInt32(o, z.Src)
	o = msgp.AppendInt64(o, z.Seq)
	o = msgp.AppendInt64(o, z.Val)
	return
}

func (z *frame) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var (
		sz  uint32
		tag uint8
	)
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	if sz != frameFields {
		err = msgp.ArrayError{Wanted: frameFields, Got: sz}
		return
	}
	tag, bts, err = msgp.ReadUint8Bytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Tag")
		return
	}
	z.Tag = Tag(tag)
	z.Src, bts, err = msgp.ReadInt32Bytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Src")
		return
	}
	z.Seq, bts, err = msgp.ReadInt64Bytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Seq")
		return
	}
	z.Val, bts, err = msgp.ReadInt64Bytes(bts)
	if err != nil {
		err = msgp.WrapError(err, "Val")
		return
	}
	o = bts
	return
}
