// Package seq downloads motion sequences to the controller board.
//
// A Sequence is an ordered list of transitions, each moving to a named
// pose over a duration. Downloading assigns every distinct pose a dense
// index in order of first appearance, uploads the poses, then uploads a
// transition table of [index, duration low, duration high] triplets
// terminated by [255, 0, 0], and finally starts playback.
package seq
