// Package dbconn resolves database connection descriptors and manages the
// lifecycle of the shared connection resource derived from them. It supports
// multiple driver backends through a common interface: the Driver and DB
// contracts are defined in driver.go, descriptor parsing in resolve.go and
// the pool lifecycle in pool.go.
package dbconn
