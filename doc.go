// Package h2engine implements a sans-I/O HTTP/2 protocol engine: a pure
// state machine that turns a stream of wire bytes into high-level protocol
// events and turns mutation calls (send headers, send data, reset stream...)
// into wire bytes, without ever touching a socket, a goroutine or a timer.
//
// A host feeds received bytes to Connection.ReceiveData and drains produced
// bytes with Connection.DataToSend; everything else - TLS, scheduling,
// retries - is the host's problem.
package h2engine
