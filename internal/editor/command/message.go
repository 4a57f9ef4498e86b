// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package command

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a message ID. IDs from one process sort in creation order.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses a message ID.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.In("command").Code("COMMAND_ID_INVALID").With("id", s).Wrap(err)
	}
	return id, nil
}

// Message is a request sent to the editor's command queue.
type Message struct {
	ID      ulid.ULID
	Command Command
}

// DoSceneCommand wraps cmd in a message asking the editor to execute it on
// the edited scene.
func DoSceneCommand(cmd Command) Message {
	return Message{ID: NewID(), Command: cmd}
}
