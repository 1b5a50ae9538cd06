// Package pool implements the squares office-pool engine.
//
// A Pool moves through three one-way gates: squares are sold until exactly
// MaxSquares are taken, the sold squares are shuffled onto the 10x10 grid,
// and the two teams plus a digit permutation per axis are drawn. After that
// each quarter's score resolves to exactly one square.
//
// # Basic Usage
//
//	p := pool.New(pool.WithRand(randutil.New(42)))
//	p.AddPurchase("Ada", "Lovelace", 60)
//	p.AddPurchase("Alan", "Turing", 40)
//	p.AssignSquares()
//	p.AssignTeams()
//	p.SetScore(pool.Q1, "Patriots", "21")
//	p.SetScore(pool.Q1, "Seahawks", "14")
//	if w, ok := p.Winner(pool.Q1); ok {
//	    fmt.Println(w.Buyer.Initials)
//	}
//
// A Pool is not safe for concurrent use. Callers that accept commands from
// several goroutines must serialize them.
package pool
