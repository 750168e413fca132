// Package memory provides in-memory grid services for the provisioning
// workflow: inventory, credentials, avatar appearance and grid user
// locations.
//
// They back the standalone server and the tests. A production grid plugs
// its own services in through the provisioning interfaces.
package memory
