/*
Package distribution computes how the balance of a splitter is divided
between its recipients.

Each recipient receives balance * share / total shares, rounded down to the
token's minor unit, which is the same computation the splitter contract
performs when distribute is called. Whatever cannot be divided without a
fraction of a minor unit stays on the splitter and is reported as dust.

Percentages are expressed in basis points. They are rounded with the largest
remainder method, so that all percentages of a distribution always add up to
exactly 100.00.
*/
package distribution
