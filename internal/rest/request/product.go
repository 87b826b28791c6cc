package request

type Report struct {
	Reason string `json:"reason" binding:"notblank,max=500"`
}

type Session struct {
	// Token is the viewer's backend credential, empty for an anonymous session
	Token string `json:"token"`
}
