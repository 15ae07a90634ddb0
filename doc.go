/*
Package splitter is a client for deploying and operating on-ledger payment
splitting contracts.

A splitter holds a token balance and a fixed list of recipients with integer
share weights. The client creates splitters through a factory contract,
reads their configuration and balance, computes the proportional payout of
every recipient and triggers the on-ledger distribution.

Subpackages implement the individual layers:

  scval         conversion between native values and contract call values
  distribution  proportional distribution arithmetic
  client        build, simulate, assemble, sign, submit and poll protocol
  rpcclient     JSON-RPC transport to the ledger
  x/splitter    typed factory, splitter and token contract calls

This package declares the address validation rules shared by all layers.
*/
package splitter
