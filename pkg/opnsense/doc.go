// Package opnsense provides types, interfaces, and helpers for working with
// the OPNsense firewall REST API.
//
// # Overview
//
// The opnsense package defines the generic response types (Result,
// SearchResult, Document) and the interfaces for the namespace and controller
// clients (e.g. KeaNamespace, AliasClient, FirmwareClient). A concrete
// implementation is provided by the opnclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// opnclient to construct a client and then interact with the interfaces
// exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/opnsense-go/opnsense/pkg/opnclient"
//	  "github.com/opnsense-go/opnsense/pkg/opnsense"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := opnclient.New(&opnsense.Config{
//	    Endpoint:  "https://192.168.1.1",
//	    APIKey:    "...",
//	    APISecret: "...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  subnets, err := cli.Kea().Dhcpv4().SearchSubnets(ctx, opnsense.NewSearchParams())
//	  if err != nil { log.Fatal(err) }
//	  _ = subnets
//	}
//
// Namespaces and their controller clients are constructed lazily on first
// access and cached; accessor calls are cheap and always return the same
// instance.
//
// # Mutations and reconfigure
//
// Model-backed mutations (alias items, filter rules, Kea subnets and
// reservations) only stage configuration. Activate them with the module's
// apply or reconfigure endpoint, e.g. cli.Kea().Service().Reconfigure(ctx)
// after Kea changes or cli.Firewall().Filter().Apply(ctx) after rule changes.
//
// # Errors
//
// API errors are represented by APIError and ValidationError. Helpers such as
// IsNotFound, IsUnauthorized, and IsValidationFailed make it easy to branch
// on common cases.
//
// # Building blocks
//
// The package also includes generic building blocks: request/response
// interceptors, a pluggable response Cache (in-memory or NATS KV), and a
// BatchExecutor for staging many mutations concurrently.
package opnsense
