// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client provides the HTTP client for the question-answering service.
//
// The service exposes two endpoints:
//
//   - POST /ask     JSON {"question": string} -> {"response": string}
//   - POST /upload  multipart with a "file" field -> {"message": string}
//
// Every failure is returned as a *ClientError whose Type says what went wrong
// (connection, timeout, status, invalid response, canceled). For upload
// failures ServerMessage carries the server's "message" when the error body
// had one. The client never retries.
//
// # Usage
//
//	c := client.New(client.DefaultConfig())
//	resp, err := c.Ask(ctx, "What is the statute of limitations?")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Text())
package client
