/*
Package scval converts native values to and from the value representation
used by contract calls.

Encoders build call arguments: byte arrays, addresses, 32 bit unsigned
integers and ordered lists of them. Decoders read values returned by a
contract call: addresses, lists, 128 bit balances and the tuple returned by
a splitter's get_config method.

Argument order and list order are preserved exactly. The contract pairs
recipients with shares by index, so both lists must be encoded in the order
they were supplied.
*/
package scval
