// Package engine provides the rules for the arcade games.
//
// Each session-backed game (number guess, tic-tac-toe, memory match and
// snake) is a concrete type implementing Game. Rock-paper-scissors is a
// single stateless round played through PlayRPS.
//
// Every action is validated before anything is mutated, so a rejected
// action returns an *Error and leaves the game untouched. Once a game
// reaches a terminal status every further action fails with
// KindInvalidState.
//
// Usage:
//
//	src := rng.New(seed)
//	game := engine.NewNumberGuess(src, engine.DefaultPresets(), "easy")
//	out, err := game.Guess(25)
//	if err != nil {
//		return err
//	}
//	fmt.Println(out.Hint)
//
// Games are not safe for concurrent use. The session manager serializes
// access per session.
package engine
