// internal/websocket/types.go
package websocket

// RPCRequest is a frontend call of a bound App method.
type RPCRequest struct {
	ID     string        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// RPCResponse answers one request by ID.
type RPCResponse struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// WSEvent is a backend-initiated push.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSMessage is the envelope for all traffic on a connection.
type WSMessage struct {
	// One of "rpc_request", "rpc_response", "event".
	Kind string `json:"kind"`

	Request  *RPCRequest  `json:"request,omitempty"`
	Response *RPCResponse `json:"response,omitempty"`
	Event    *WSEvent     `json:"event,omitempty"`
}
