package tracker

func USD(v float64) Money { return M(v, "USD") }
