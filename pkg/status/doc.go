/*
Package status holds the outcome model of a single ensurefile invocation and
the one place where it becomes a process exit code.

	+-------------+      +-------------+
	|   Outcome   |      |  Decision   |
	| (transform) |      |   (gate)    |
	+------+------+      +------+------+
	       |                    |
	       +---------+----------+
	                 |
	          +------+------+
	          |  Classify   |
	          | (exit code) |
	          +-------------+

🎯 Purpose:
- Names what a transform found (no match, already correct, changed, ...)
- Names what the confirmation gate decided
- Maps both, plus the idempotent-ok flag, to exactly one exit code
- Provides the wording of the one-line user messages

🚦 Exit codes:

	0  ok (written, or nothing to do when idempotent-ok)
	1  generic failure
	2  permission denied (read or write)
	3  no match (replace operations)
	4  no change needed / declined
	5  required file not found

These values are relied on by provisioning scripts and must not change.
*/
package status
