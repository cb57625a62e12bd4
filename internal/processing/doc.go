// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package processing owns the analysis workflows: queue extraction
// (audio or image), multiple-choice extraction, the coding utility,
// and the vision-augmented debug pass.
//
// The orchestrator holds two independent cancellable slots (primary
// for extraction, secondary for debug). A slot is either empty or
// holds exactly one in-flight operation; it is cleared unconditionally
// when the operation ends, whatever the outcome. Overlapping commands
// on an occupied slot are rejected with ErrSlotBusy.
//
// Extraction results are committed to the shared state store only on
// success. A failed analysis leaves the previously committed problem
// untouched and surfaces the failure as a typed event.
package processing
