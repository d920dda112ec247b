/*
Package altertable provides the client-side event-capture SDK for the
Altertable collector.

# Overview

The client assigns stable visitor, session, and user identities, buffers
calls made before initialization, and delivers behavioral events to the
collector over a fire-and-forget beacon path or an authenticated request
path. With auto-capture enabled it also watches the host location and
reports navigation changes as pageview events.

# Basic Usage

Create a client, initialize it with an API key, and start tracking:

	client := altertable.New()
	client.Init("ak-your-key", config.Partial{})

	client.Identify("user-42")
	client.Track("signup", map[string]any{"plan": "pro"})
	client.Page("https://example.com/welcome?ref=email")

Calls made before Init are buffered and replayed in order, exactly once,
when Init runs:

	client := altertable.New()
	client.Track("early", nil) // buffered
	client.Init("ak-your-key", config.Partial{})
	// "early" has been delivered

A process-wide default client is available through the package-level
functions:

	altertable.Init("ak-your-key", config.Partial{})
	altertable.Track("signup", nil)

# Instrumentation Safety

No public client method returns an error or panics. Delivery failures,
storage failures, and malformed input are logged and swallowed so that
instrumentation can never crash the host application. The destination
forwarder in pkg/altertable/destination follows the opposite policy and
propagates classified failures to its batch host.
*/
package altertable

// SDK identity attached to events as $lib / $lib_version.
const (
	libName = "altertable-go"

	// Version is the SDK release identifier.
	Version = "0.4.2"
)
