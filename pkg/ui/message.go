// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package ui

import "github.com/emberforge/ember/pkg/pool"

// MenuItemMessage is the payload of messages addressed to menu items.
type MenuItemMessage uint8

// Menu item messages.
const (
	MenuItemClick MenuItemMessage = iota
	MenuItemOpen
	MenuItemClose
)

// Message is addressed to a single widget.
type Message struct {
	Destination pool.Handle[Widget]
	Data        any
}

// MenuItem returns the payload if it is a MenuItemMessage.
func (m Message) MenuItem() (MenuItemMessage, bool) {
	v, ok := m.Data.(MenuItemMessage)
	return v, ok
}

// Send queues msg for the next Poll.
func (u *UserInterface) Send(msg Message) {
	u.queue = append(u.queue, msg)
}

// Click queues a MenuItemClick for h.
func (u *UserInterface) Click(h pool.Handle[Widget]) {
	u.Send(Message{Destination: h, Data: MenuItemClick})
}

// Poll dequeues the oldest message.
func (u *UserInterface) Poll() (Message, bool) {
	if len(u.queue) == 0 {
		return Message{}, false
	}
	msg := u.queue[0]
	u.queue[0] = Message{}
	u.queue = u.queue[1:]
	return msg, true
}

// Pending returns the number of queued messages.
func (u *UserInterface) Pending() int {
	return len(u.queue)
}
