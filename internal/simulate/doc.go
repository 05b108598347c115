// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package simulate implements the cosmetic upload animation: a rotating status
line and an eased progress percentage that advance on timers, independent of
anything the server reports.

# Key Types

## Simulation (simulation.go)

Pure state: the progress scalar, the status index and the script. It has no
timers; callers step it explicitly, which keeps the banded progress curve
deterministic under a seeded random source.

## Session (session.go)

Owns one Simulation plus the two tickers that drive it (status every 2s,
progress every 300ms by default). A Session is created per upload attempt and
stopped on every exit path. After Stop returns, no further snapshot is
produced.

# Invariants

  - Progress is non-decreasing while a session runs.
  - Progress never exceeds 99 under simulation alone; only Complete sets 100.
  - The status index wraps to the first phase after the last.
*/
package simulate
