// Package ws carries the real-time channel over gorilla/websocket.
//
// Every frame is a JSON text message {"event", "data", "ack"?}. A frame with
// an ack id gets exactly one {"event": "ack", "ack": id, "data": ...} reply.
// Each connection has one read pump, which dispatches events in arrival
// order, and one writer goroutine fed by a bounded queue; a client whose
// queue fills up is evicted.
package ws
