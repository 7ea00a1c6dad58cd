// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import "strings"

// Signature is a literal pattern and the category reported when it matches.
type Signature struct {
	Text     string
	Category Category
}

// Hit is a signature match inside an inspected string.
type Hit struct {
	Pattern  string
	Category Category
	Position int
}

// Matcher finds any of a fixed set of signatures in a string in a single
// pass (Aho-Corasick). It is built once and is immutable afterwards, so it is
// safe for concurrent use without locking.
//
// Matching is case-insensitive over ASCII; signatures are lowered at build time.
type Matcher struct {
	root       *acNode
	signatures []Signature
}

type acNode struct {
	children map[byte]*acNode
	failure  *acNode
	output   []int
}

func newACNode() *acNode {
	return &acNode{children: make(map[byte]*acNode)}
}

// NewMatcher builds the automaton. Empty signatures are ignored.
func NewMatcher(signatures []Signature) *Matcher {
	m := &Matcher{root: newACNode()}
	for _, sig := range signatures {
		if sig.Text == "" {
			continue
		}
		sig.Text = strings.ToLower(sig.Text)
		m.insert(len(m.signatures), sig.Text)
		m.signatures = append(m.signatures, sig)
	}
	m.buildFailureLinks()
	return m
}

func (m *Matcher) insert(index int, text string) {
	node := m.root
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if node.children[ch] == nil {
			node.children[ch] = newACNode()
		}
		node = node.children[ch]
	}
	node.output = append(node.output, index)
}

// buildFailureLinks builds failure links using BFS.
func (m *Matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			// Follow failure links to find longest proper suffix
			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}

			if fail == nil {
				child.failure = m.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// First returns the first signature that ends earliest in text.
func (m *Matcher) First(text string) (Hit, bool) {
	var hit Hit
	found := false
	m.scan(text, func(idx, end int) bool {
		sig := m.signatures[idx]
		hit = Hit{Pattern: sig.Text, Category: sig.Category, Position: end - len(sig.Text) + 1}
		found = true
		return false
	})
	return hit, found
}

// All returns every match in text, in the order they end.
func (m *Matcher) All(text string) []Hit {
	var hits []Hit
	m.scan(text, func(idx, end int) bool {
		sig := m.signatures[idx]
		hits = append(hits, Hit{Pattern: sig.Text, Category: sig.Category, Position: end - len(sig.Text) + 1})
		return true
	})
	return hits
}

// Len returns the number of signatures in the automaton.
func (m *Matcher) Len() int {
	return len(m.signatures)
}

func (m *Matcher) scan(text string, emit func(sigIndex, end int) bool) {
	if len(m.signatures) == 0 {
		return
	}

	node := m.root
	for i := 0; i < len(text); i++ {
		ch := lowerASCII(text[i])

		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]

		for _, idx := range node.output {
			if !emit(idx, i) {
				return
			}
		}
	}
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
