// Package influxdb records graystore metrics in InfluxDB 2.x.
//
// Two measurements are written:
//
//	dispatch    tags action, status; field duration_ms
//	tag_events  tag type;            field tag
//
// Writes are non-blocking and batched per influxdb.batch_size and
// influxdb.flush_interval. Write failures arrive asynchronously through the
// SetOnError callback; connection and health check errors are returned.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.RecordDispatch("value/read", 200, elapsed)
package influxdb
