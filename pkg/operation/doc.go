/*
Package operation runs sortrc batches: it lists the files of a source
directory, decides where each one belongs and moves or copies it there.

	+-------------+
	|  Organizer  |
	|  (batch)    |
	+------+------+
	       |
	+------+------+     +-------------+
	|    scan     |---->|  classify   |
	| (ListFiles) |     | (subfolder) |
	+-------------+     +------+------+
	                           |
	                    +------+------+
	                    |  conflict   |
	                    |  (resolve)  |
	                    +------+------+
	                           |
	                    +------+------+     +-------------+
	                    |  transfer   |---->|   journal   |
	                    | (move/copy) |     | (undo log)  |
	                    +-------------+     +-------------+

🎯 Purpose:
- Validates the batch options once, before any file is touched
- Drives every file through classify, conflict and transfer
- Reports progress through callbacks instead of logging hooks
- Reverts a batch through the undo journal

🔄 Flow:
1. Lock the journal (skipped on dry runs)
2. List files, excluding the destination tree
3. Report the total through OnScan
4. For each file: check for cancellation, classify, resolve, transfer
5. Report each result through OnProgress and return the stats

⚡ Guarantees:
- A failing file is counted, never fatal to the batch
- Cancellation is honored between files only; a transfer in flight finishes
- Dry runs create destination folders and nothing else

🔍 Example:

	org, err := operation.New(operation.Options{
		Source:  "/home/me/Downloads",
		Mode:    classify.ModeType,
		Action:  transfer.ActionMove,
		Policy:  conflict.PolicyRename,
		Journal: journal.New(xdg.StateHome + "/sortrc/undo.log"),
	})
	if err != nil {
		return err
	}
	stats, err := org.Run(ctx)

	// later
	undone, err := operation.Undo(ctx, org.Options().Journal, nil)
*/
package operation
