/*
Package ledgertest provides fakes and fixtures for testing code that talks
to the ledger: a scripted Ledger, a Signer holding a random key and a set
of valid addresses.
*/
package ledgertest
