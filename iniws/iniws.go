// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package iniws sends and receives INI documents as WebSocket text messages.
package iniws

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yourbase/inipp/ini"
	"zombiezen.com/go/log"
)

// ReadDocument reads the next message from the connection and parses it as an
// INI document. The message must be a text message. Parse options are used as
// in ini.Parse; skipped lines are logged to the logger in ctx.
func ReadDocument(ctx context.Context, conn *websocket.Conn, opts *ini.ParseOptions) (*ini.Document, error) {
	messageType, p, err := readMessage(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("read ini document: %w", err)
	}
	if messageType != websocket.TextMessage {
		log.Warnf(ctx, "Rejecting %d-byte websocket message of type %d", len(p), messageType)
		return nil, fmt.Errorf("read ini document: message type %d is not text", messageType)
	}
	d, err := ini.ParseContext(ctx, bytes.NewReader(p), opts)
	if err != nil {
		return d, fmt.Errorf("read ini document: %w", err)
	}
	return d, nil
}

// WriteDocument serializes the document and writes it to the connection as a
// single text message.
func WriteDocument(ctx context.Context, conn *websocket.Conn, d *ini.Document) error {
	text, err := d.MarshalText()
	if err != nil {
		return fmt.Errorf("write ini document: %w", err)
	}
	if err := writeMessage(ctx, conn, websocket.TextMessage, text); err != nil {
		return fmt.Errorf("write ini document: %w", err)
	}
	return nil
}

// readMessage reads the next message from the connection, unblocking the read
// if ctx is done first.
func readMessage(ctx context.Context, conn *websocket.Conn) (messageType int, p []byte, err error) {
	ctxDone := ctx.Done()
	if ctxDone == nil {
		return conn.ReadMessage()
	}
	select {
	case <-ctxDone:
		return 0, nil, ctx.Err()
	default:
	}
	read := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-read:
		case <-ctxDone:
			conn.SetReadDeadline(time.Now())
		}
	}()
	messageType, p, err = conn.ReadMessage()
	close(read)
	<-watchDone
	return
}

// writeMessage writes a message to the connection, unblocking the write if
// ctx is done first.
func writeMessage(ctx context.Context, conn *websocket.Conn, messageType int, data []byte) error {
	ctxDone := ctx.Done()
	if ctxDone == nil {
		return conn.WriteMessage(messageType, data)
	}
	select {
	case <-ctxDone:
		return ctx.Err()
	default:
	}
	written := make(chan struct{})
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		select {
		case <-written:
		case <-ctxDone:
			// XXX This is racy because WriteMessage will unconditionally call
			// SetWriteDeadline.
			conn.UnderlyingConn().SetWriteDeadline(time.Now())
		}
	}()
	err := conn.WriteMessage(messageType, data)
	close(written)
	<-watchDone
	return err
}
