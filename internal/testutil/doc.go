// Package testutil provides small helpers shared by package tests:
// deterministic random sources for dice rolls and scene builders.
package testutil
