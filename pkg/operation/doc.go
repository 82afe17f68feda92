/*
Package operation runs one ensurefile edit from start to finish.

	+-------------+     +-------------+     +-------------+
	|  filestore  | --> |    text     | --> |   confirm   |
	|   (read)    |     | (transform) |     | (diff, ask) |
	+-------------+     +-------------+     +------+------+
	                                               |
	+-------------+     +-------------+            |
	|   status    | <-- |  filestore  | <----------+
	| (exit code) |     |   (write)   |
	+-------------+     +-------------+

🔄 Flow:
1. Reads the target (absent is empty content for ensure operations)
2. Applies the operation and classifies the result
3. Passes a pending change through the confirmation gate
4. Writes the new content when approved
5. Maps outcome and decision to exactly one exit code

Every step is synchronous. Nothing is retried: a failure is classified
and reported immediately.

📢 Messages:
Informational lines (already correct, no match, updated, declined) are
suppressed in quiet mode. "File not found" and "Permission denied" are
always printed to the error stream.
*/
package operation
