// Package scripts loads SQL script files and splits them into individual
// statements. The splitter is quote- and comment-aware so semicolons inside
// literals never break a statement apart.
package scripts
