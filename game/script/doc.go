// Package script runs toy robot command scripts.
//
// A script holds one command per line:
//
//	PLACE 0,0,NORTH
//	MOVE
//	RIGHT
//	REPORT   # prints 0,1,EAST
//
// Keywords are case-insensitive and "#" starts a comment. Lines the grammar
// does not understand are passed to the robot unchanged, which records them
// in its history and ignores them.
package script
