// Package transport carries coproto values between peers over a stream
// connection.
//
// A Server accepts connections and registers each one by sending
// Command("REGISTER", [Integer(peerID)]). Clients then send
// Command("MSG", [String(msgID), payload]) and the server answers every
// message with Command("ACK", [String(msgID)]) or
// Command("NACK", [String(msgID), String(reason)]). Values are
// self-delimiting, so a Reader reassembles them from the raw byte stream.
package transport
