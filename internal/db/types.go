package db

const (
	NODE_SCHEME_BTCRPC     = "btcrpc"
	NODE_SCHEME_BTCSTANDUP = "btcstandup"
	NODE_SCHEME_HTTP       = "http"
	NODE_SCHEME_HTTPS      = "https"

	NODE_DEFAULT_LABEL = "Node"
)
