package game

import (
	"encoding/json"
	"strings"

	"quizrally/internal/model"
)

const hostTagPrefix = "h_"

// Registry tracks the live connections of one room, each under a unique tag.
// It is owned by the room actor and must only be touched from the actor
// goroutine, so it needs no locking.
type Registry struct {
	conns   map[string]Sink
	hostTag string
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Sink)}
}

// Attach binds a connection under its tag. A second host connection silently
// replaces the previous binding.
func (r *Registry) Attach(tag string, host bool, s Sink) {
	if host {
		if prev, ok := r.conns[r.hostTag]; ok {
			prev.Close("replaced")
			delete(r.conns, r.hostTag)
		}
		r.hostTag = tag
	}
	r.conns[tag] = s
}

// Detach drops a connection. Detaching a tag that is not bound is a no-op.
func (r *Registry) Detach(tag string) {
	delete(r.conns, tag)
	if tag == r.hostTag {
		r.hostTag = ""
	}
}

// HostTag returns the tag of the current host connection, or "".
func (r *Registry) HostTag() string { return r.hostTag }

// IsHost reports whether tag is the currently bound host connection.
func (r *Registry) IsHost(tag string) bool {
	return tag != "" && tag == r.hostTag
}

// IsHostTag reports whether tag was issued for a host upgrade, bound or not.
func IsHostTag(tag string) bool {
	return strings.HasPrefix(tag, hostTagPrefix)
}

// SendTo delivers a message to one connection, best-effort.
func (r *Registry) SendTo(tag string, msg model.Message) {
	s, ok := r.conns[tag]
	if !ok {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = s.Send(data)
}

// SendToHost delivers a message to the host connection only.
func (r *Registry) SendToHost(msg model.Message) {
	if r.hostTag != "" {
		r.SendTo(r.hostTag, msg)
	}
}

// Broadcast fans a message out to every connection, host included.
func (r *Registry) Broadcast(msg model.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, s := range r.conns {
		_ = s.Send(data)
	}
}

// PlayerTags returns the tags of all non-host connections.
func (r *Registry) PlayerTags() []string {
	tags := make([]string, 0, len(r.conns))
	for tag := range r.conns {
		if tag != r.hostTag {
			tags = append(tags, tag)
		}
	}
	return tags
}

// PlayerCount is the number of non-host connections.
func (r *Registry) PlayerCount() int {
	n := len(r.conns)
	if r.hostTag != "" {
		n--
	}
	return n
}

// Close shuts one connection down.
func (r *Registry) Close(tag, reason string) {
	if s, ok := r.conns[tag]; ok {
		s.Close(reason)
		delete(r.conns, tag)
		if tag == r.hostTag {
			r.hostTag = ""
		}
	}
}

// CloseAll shuts every connection down.
func (r *Registry) CloseAll(reason string) {
	for tag, s := range r.conns {
		s.Close(reason)
		delete(r.conns, tag)
	}
	r.hostTag = ""
}
