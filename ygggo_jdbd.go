package ygggo_jdbd

func Version() string { return "v0.1.0-dev" }
