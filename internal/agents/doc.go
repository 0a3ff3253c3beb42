// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agents implements the transit assistant: a supervisor that
// classifies incoming prompts and routes transit-status questions to the
// alerts agent, which answers them from the MBTA v3 API.
//
// The supervisor refuses anything unrelated to transit with a fixed
// message so the assistant never improvises outside its domain.
package agents
