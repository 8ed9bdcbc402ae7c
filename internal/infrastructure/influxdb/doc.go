// Package influxdb records assistant telemetry in InfluxDB.
//
// It wraps influxdb-client-go v2 with a batched, non-blocking write API.
// Two measurements are written:
//
//   - assistant_executions: one point per executed command, tagged with the
//     device id, command, status and error code
//   - assistant_variables: numeric and boolean variable changes
//
// Client implements the fulfillment execution recorder, so it can be
// attached to a fulfillment handler directly:
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	handler.AddRecorder(client)
//
// Write errors are delivered asynchronously through SetOnError.
package influxdb
