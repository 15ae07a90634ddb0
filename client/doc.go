/*
Package client drives a single contract invocation through the ledger.

An invocation is strictly sequential:

	1. load the source account sequence number
	2. build an unsigned transaction holding one contract call
	3. simulate it against the current ledger state
	4. assemble the simulated resource footprint and fee into the transaction
	5. hand the transaction to a Signer and wait for the signed envelope
	6. submit the signed envelope
	7. poll by hash until the transaction reaches a terminal status

The Ledger interface abstracts the ledger RPC endpoint and the Signer
interface abstracts the wallet holding the keys. Neither is implemented
here, see the rpcclient package for the ledger side.

A Client holds no mutable state, so many invocations can run concurrently
against the same endpoint.
*/
package client
