// Package dedup suppresses repeated triggers of the same scanned value.
package dedup

import (
	"container/list"
	"strings"
	"time"
)

// entry is the last time a value was accepted as new.
type entry struct {
	value    string
	lastSeen time.Time
}

// Deduplicator answers whether a value has been silent for a full window.
//
// Entries are kept in lastSeen order, oldest first, so both the size cap and
// Sweep only ever touch the front of the list. It is not safe for
// concurrent use.
type Deduplicator struct {
	window     time.Duration
	maxEntries int

	entries map[string]*list.Element
	order   *list.List
}

// New returns a Deduplicator with the given window. maxEntries <= 0 leaves
// the table unbounded.
func New(window time.Duration, maxEntries int) *Deduplicator {
	return &Deduplicator{
		window:     window,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// IsNew reports whether value should be acted on at now. A value that was
// accepted less than one window ago is suppressed, and suppression does not
// extend the window. Blank values are never new.
func (d *Deduplicator) IsNew(value string, now time.Time) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}

	if el, ok := d.entries[value]; ok {
		e := el.Value.(*entry)
		if now.Sub(e.lastSeen) < d.window {
			return false
		}
		e.lastSeen = now
		d.order.MoveToBack(el)
		return true
	}

	if d.maxEntries > 0 && d.order.Len() >= d.maxEntries {
		d.evictOldest()
	}
	d.entries[value] = d.order.PushBack(&entry{value: value, lastSeen: now})
	return true
}

// Sweep drops every entry whose window has elapsed at now and returns the
// number removed.
func (d *Deduplicator) Sweep(now time.Time) int {
	removed := 0
	for el := d.order.Front(); el != nil; el = d.order.Front() {
		e := el.Value.(*entry)
		if now.Sub(e.lastSeen) < d.window {
			break
		}
		d.order.Remove(el)
		delete(d.entries, e.value)
		removed++
	}
	return removed
}

// Len returns the number of tracked values, expired or not.
func (d *Deduplicator) Len() int {
	return d.order.Len()
}

// Window returns the configured suppression window.
func (d *Deduplicator) Window() time.Duration {
	return d.window
}

func (d *Deduplicator) evictOldest() {
	el := d.order.Front()
	if el == nil {
		return
	}
	d.order.Remove(el)
	delete(d.entries, el.Value.(*entry).value)
}
