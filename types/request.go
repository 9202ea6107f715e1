package types

// RemoteCallRequest asks for the result of a runtime call against the
// state of a remote block. The header carries the trusted state root;
// verification never re-validates block authenticity.
type RemoteCallRequest struct {
	Block    BlockReference `cramberry:"1"`
	Header   Header         `cramberry:"2"`
	Method   string         `cramberry:"3"`
	CallData []byte         `cramberry:"4"`
	// Number of times this request was already retried against other
	// peers. Carried on the wire for the peer-selection layer; this
	// module never retries on its own.
	RetryCount uint32 `cramberry:"5"`
}
