package websocket

type ConnectParams struct {
	Alias string `form:"alias" binding:"max=64"` // alias held before a dropped connection, to reclaim it
}
