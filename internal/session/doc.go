// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session state machine.
//
// A Machine owns the single State of a running client and is the only thing
// that mutates it. It consumes key actions (InputMsg) and network results
// (CatalogLoadedMsg, StreamFragmentMsg, StreamEndMsg) and answers with Bubble
// Tea commands that perform the next network step.
//
// # Modes
//
//	Loading -> Selecting -> Chatting <-> Streaming
//	   ^          |            ^            |
//	   |          v            |            v
//	   +------- Error ---------+------------+
//
// Exiting is terminal and reachable from every mode.
//
// # Streaming
//
// At most one completion is in flight. Each fragment is applied in arrival
// order and the next Recv is issued only after the previous fragment was
// applied, so the event loop sees exactly one fragment per iteration and
// keeps handling keys in between. Results tagged with a stream or fetch that
// is no longer current are dropped.
package session
