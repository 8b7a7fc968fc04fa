// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// Two operations are exposed: listing the models a server has available, and
// streaming a chat completion.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - Message: Chat message with role and content
//   - Stream: pull-based sequence of completion fragments
//   - ClientError: categorized failure with sentinel values
//
// # Usage
//
//	client := ollama.NewClient()
//	names, err := client.ModelNames(ctx)
//
// For streaming responses:
//
//	stream, err := client.StreamChat(ctx, "qwen2.5:7b", messages)
//	defer stream.Close()
//	for {
//	    frag, err := stream.Recv()
//	    if err == io.EOF {
//	        break
//	    }
//	    fmt.Print(frag.Content)
//	}
package ollama
