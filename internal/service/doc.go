// Package service implements the application services on top of the stores
// and the ledger: registration and login, admin account operations,
// redemption approval, and history reads.
package service
