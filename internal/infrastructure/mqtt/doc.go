// Package mqtt publishes graystore change events to an MQTT broker.
//
// The client is publish-only. Each tag change is sent retained on
// <prefix>/tags/<tag>, and the client keeps a retained status message on
// <prefix>/system/status: "online" after every (re)connect, "offline" on a
// clean shutdown, and an "offline" will published by the broker when the
// connection drops.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishRetained(client.Topics().Tag("heads/main"), payload)
//
// Use TLS (mqtt.broker.tls) for anything but a local broker.
package mqtt
