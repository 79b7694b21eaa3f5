// Package main provides localization for the picly CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Editing":       "編集",
		"Output":        "出力先",
		"AI Service":    "AIサービス",
		"Debug":         "デバッグ",
		"Logging":       "ログ",

		// Root command
		"Edit raster images with adjustments, filters, brush scripts and AI operations": "補正・フィルター・ブラシスクリプト・AI処理で画像を編集",

		// Edit command
		"Apply edits to an image and export the result":                                          "画像を編集して結果を書き出す",
		"Load an image, apply filters, adjustments and a replay script, then export the result.": "画像を読み込み、フィルター・補正・再生スクリプトを適用して結果を書き出します。",
		"edit needs exactly one input image":                                                     "edit には入力画像を1つ指定してください",

		// Remote command
		"Run an AI operation on an image":                                "画像にAI処理を実行",
		"Send an image to the AI service and export the returned image.": "画像をAIサービスに送信し、返された画像を書き出します。",
		"remote needs an operation and an input image":                   "remote には処理名と入力画像を指定してください",

		// Preview command
		"Render the editor view of an image":                                                                          "エディタの表示を画像として描画",
		"Render the image as the editor shows it: fitted to the container, over a checkerboard, with the zoom label.": "エディタと同じく、コンテナに合わせてチェッカーボード上に倍率ラベル付きで描画します。",
		"preview needs exactly one input image":                                                                       "preview には入力画像を1つ指定してください",

		// Journal command
		"Inspect a SQLite journal":                                                               "SQLiteジャーナルを確認",
		"List recorded sessions, the checkpoints of one session, or extract a checkpoint image.": "記録されたセッション、セッションのチェックポイントを一覧表示するか、チェックポイント画像を取り出します。",
		"journal needs exactly one database path":                                                "journal にはデータベースのパスを1つ指定してください",
		"Journal":                                                                                "ジャーナル",
		"Session ID to inspect":                                                                  "確認するセッションID",
		"Checkpoint number to extract":                                                           "取り出すチェックポイント番号",
		"Output PNG path for --extract":                                                          "--extract の出力PNGパス",
		"%d checkpoints":                                                                         "%d チェックポイント",
		"Checkpoint %d written to %s":                                                            "チェックポイント %d を %s に書き出しました",

		// Version command
		"Show version information": "バージョン情報を表示",
		"picly version %s":         "picly バージョン %s",

		// Global flags
		"YAML configuration file":                           "YAML設定ファイル",
		"Maximum number of undo checkpoints":                "取り消し可能なチェックポイントの最大数",
		"Adjustment worker count (default: number of CPUs)": "補正処理のワーカー数（デフォルト: CPU数）",
		"Write a session summary (.md or .html)":            "セッションのサマリーを書き出す (.md または .html)",
		"Save every checkpoint to the debug directory":      "すべてのチェックポイントをデバッグディレクトリに保存",
		"Record checkpoints into a SQLite journal":          "チェックポイントをSQLiteジャーナルに記録",
		"Directory for debug output":                        "デバッグ出力ディレクトリ",
		"Log level (debug, info, warn, error)":              "ログレベル (debug, info, warn, error)",
		"Suppress all log output":                           "すべてのログ出力を抑制",

		// Output flags
		"Output image path (default: edited-<timestamp>.png in the export directory)": "出力画像パス（デフォルト: 書き出しディレクトリの edited-<タイムスタンプ>.png）",
		"Output PNG path (required)":                                                  "出力PNGファイルパス（必須）",
		"Directory for timestamped exports":                                           "タイムスタンプ付きで書き出すディレクトリ",
		"Export format (png, jpeg, gif, bmp, tiff)":                                   "書き出し形式 (png, jpeg, gif, bmp, tiff)",
		"JPEG quality preset (low, medium, high)":                                     "JPEG品質プリセット (low, medium, high)",
		"Write a contact sheet of the history checkpoints":                            "履歴チェックポイントの一覧シートを書き出す",
		"History sheet columns (min: 1)":                                              "履歴シートのカラム数（最小: 1）",
		"Hide the zoom label":                                                         "倍率ラベルを表示しない",

		// Editing flags
		"Replay script (YAML)":                           "再生スクリプト (YAML)",
		"Filter preset (bw, sepia, vivid)":               "フィルタープリセット (bw, sepia, vivid)",
		"Apply the auto-enhance preset":                  "自動補正プリセットを適用",
		"Brightness (-100 to 100)":                       "明るさ (-100〜100)",
		"Contrast (-100 to 100)":                         "コントラスト (-100〜100)",
		"Saturation (-100 to 100)":                       "彩度 (-100〜100)",
		"Sharpness (0 to 100)":                           "シャープネス (0〜100)",
		"Zoom (in, out, fit, a factor or a percentage)":  "倍率 (in, out, fit, 倍率またはパーセント)",
		"AI operation to run after editing (repeatable)": "編集後に実行するAI処理（複数指定可）",

		// AI service flags
		"AI service base URL":                "AIサービスのベースURL",
		"AI request timeout":                 "AIリクエストのタイムアウト",
		"Prompt for edit and style transfer": "編集・スタイル変換のプロンプト",
		"Edit strength (0-1)":                "編集の強さ (0-1)",
		"Upscale factor":                     "拡大倍率",

		// Summary
		"Editing Summary":   "編集サマリー",
		"Image":             "画像",
		"File Name":         "ファイル名",
		"Dimensions":        "サイズ",
		"File Size":         "ファイルサイズ",
		"Format":            "形式",
		"Edits":             "編集",
		"Checkpoints":       "チェックポイント",
		"Strokes":           "ストローク",
		"Filters":           "フィルター",
		"Undo / Redo":       "取り消し / やり直し",
		"Final Size":        "最終サイズ",
		"Zoom":              "倍率",
		"History":           "履歴",
		"current":           "現在",
		"Remote Operations": "AI処理",
		"Succeeded":         "成功",
		"Failed":            "失敗",
		"Operations":        "処理",
		"Last Error":        "最後のエラー",
		"Script":            "スクリプト",
		"Steps":             "ステップ",
		"Failed Steps":      "失敗したステップ",
		"Exported File":     "書き出したファイル",
		"Preview":           "プレビュー",
		"History Sheet":     "履歴シート",
		"Property":          "項目",
		"Value":             "値",
		"Generated at":      "生成日時",

		// Errors
		"Error: %s": "エラー: %s",
	})
}
