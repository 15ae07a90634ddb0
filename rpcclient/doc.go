/*
Package rpcclient implements client.Ledger on top of the JSON-RPC 2.0 API
exposed by ledger RPC servers over HTTP.

All XDR payloads are exchanged base64 encoded. Failures are decoded from
the XDR returned by the server into a client.Reason, so callers never have
to inspect error messages.
*/
package rpcclient
