package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting session":                     "セッションを開始します",
		"Loading %s":                           "%s を読み込み中",
		"Image loaded: %dx%d %s":               "画像を読み込みました: %dx%d %s",
		"Session completed successfully":       "セッションが正常に完了しました",
		"Output saved to %s":                   "出力を %s に保存しました",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Image exported: %s (%d bytes)":        "画像を書き出しました: %s (%d バイト)",
		"Preview written: %s":                  "プレビューを書き出しました: %s",
		"Remote result applied: %dx%d":         "AI処理の結果を適用しました: %dx%d",
		"Replaying %d steps":                   "%d ステップを再生中",
		"Replay completed":                     "再生が完了しました",
		"Replay finished with %d failed steps": "再生が完了しました (失敗 %d ステップ)",

		"History sheet written: %s (%d checkpoints)": "履歴シートを書き出しました: %s (%d チェックポイント)",

		// Remote operation progress
		"Removing background with AI...":      "AIで背景を除去中...",
		"Enhancing face with AI...":           "AIで顔を補正中...",
		"Colorizing image with AI...":         "AIで画像をカラー化中...",
		"Auto-enhancing image...":             "画像を自動補正中...",
		"Upscaling image to 4x resolution...": "画像を4倍の解像度に拡大中...",
		"Processing with AI...":               "AIで処理中...",

		// Errors
		"Failed to load image: %s":           "画像の読み込みに失敗しました: %s",
		"Failed to apply edits: %s":          "編集の適用に失敗しました: %s",
		"Replay stopped: %s":                 "再生を中断しました: %s",
		"Remote operation failed: %s":        "AI処理に失敗しました: %s",
		"Failed to export image: %s":         "画像の書き出しに失敗しました: %s",
		"Failed to render preview: %s":       "プレビューの描画に失敗しました: %s",
		"Failed to render history sheet: %s": "履歴シートの描画に失敗しました: %s",
	})
}
