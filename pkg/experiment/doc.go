// Package experiment measures how a quicksort running on simulated CPUs performs.
//
// An Analyzer repeats the sort of a freshly generated random input for a single CPU
// configuration and summarizes the run durations. Every run flows through a pipeline:
//
//	generate -> sort -> fanout -> aggregate
//	                          \-> record
//
// The record branch only exists when a recorder is configured. The sort step runs one
// sort at a time so that the measured durations are not affected by other sorts.
//
// Run executes an Analyzer per CPU configuration, one configuration after the other.
package experiment
