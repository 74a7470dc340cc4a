/*
Package markov provides a small, in-memory toolkit for building Markov chain
models from tokenized text and generating new text by randomly walking them.

A model is built in a single pass over a corpus, mapping each fixed-length
window of preceding tokens to the tokens observed to follow it, with
frequencies. Once built, a model is immutable and safe for any number of
concurrent generation runs. Generation is frequency-weighted, reproducible
when a seed is supplied, and can be asked to start and stop at sentence
boundaries.

For a complete usage example, see the README.md file.
*/
package markov
