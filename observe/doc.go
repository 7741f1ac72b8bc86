// Package observe provides telemetry primitives for the analysis client.
//
// It is a pure instrumentation library: no execution, no transport, no
// I/O beyond exporter setup. The transport and api packages wire the
// observer into their request paths.
package observe
