// Package realtime is the broadcast core of the shop floor: the Session
// Registry, the Broadcast Router and the Presence Publisher, tied together by
// the Hub.
//
// The core never touches a socket. Transports implement Conn and hand frames
// to the Hub; the Hub answers through Conn.Send, which must not block.
//
// Registry state is guarded by a single mutex. No Conn method is called while
// it is held, so a slow transport cannot stall registry mutations.
package realtime
