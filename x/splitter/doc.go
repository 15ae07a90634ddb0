/*
Package splitter is the typed API of the payment splitter contracts.

A factory contract deploys splitters. Each splitter holds a configuration,
a token and a list of recipients with their share weights, and pays out its
whole token balance proportionally when distribute is called. Anyone can
call distribute.

Read only methods are simulated and never submitted. Methods changing the
ledger state are signed by the caller's signer and submitted.
*/
package splitter
