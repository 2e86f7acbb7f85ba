// SPDX-License-Identifier: MIT

// Package primal computes the n-th prime exactly, for any n a machine word
// can hold, together with the prime-counting and sieving pieces it is
// built from.
//
// 🚀 What is inside?
//
//	• estimate/  – closed-form lower and upper bounds for p_n, sieve sizing
//	• sieve/     – mod-6 wheel Eratosthenes on a packed bitset
//	• primepi/   – π(x) by Legendre's formula over sieved base primes
//	• nextprime/ – the "next prime after x" step (trial division + BPSW)
//	• nthprime/  – the driver: sequential walk for small n, estimate →
//	               count → correct → walk for large n; Primorial and Batch
//	• trace/     – stage events, with zap and Prometheus adapters
//	• config/, cache/, cmd/primal – YAML/env configuration, result cache
//	  (in-memory LRU or Redis) and the CLI / HTTP front end
//
// Quick example:
//
//	p, err := nthprime.Nth(1_000_000)
//	// p = 15485863
//
// The sieve path for p_n costs a sieve to √(1.01·X), X ≈ n·ln n, two
// Legendre counts and a walk of a few dozen to a few hundred primes, so
// indices in the hundreds of millions finish in seconds.
//
//	go install github.com/katalvlaran/primal/cmd/primal@latest
package primal
