package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/benz9527/xset/lib/infra"
	"github.com/benz9527/xset/lib/tree"
	"github.com/benz9527/xset/lib/xlog"
)

type cmdArgs struct {
	Keys       []int64 `arg:"positional" help:"keys to insert, duplicates collapse"`
	Erase      []int64 `arg:"--erase" help:"keys to erase after the insertion"`
	Find       []int64 `arg:"--find" help:"keys to look up"`
	LowerBound []int64 `arg:"--lower-bound" help:"report the first key not less than each query"`
	Desc       bool    `arg:"--desc" help:"order keys descending"`
	LogLevel   string  `arg:"--log-level,env:XLOG_LVL" default:"INFO" help:"DEBUG, INFO, WARN or ERROR"`
	PlainText  bool    `arg:"--plain" help:"plain text log lines instead of JSON"`
}

func (cmdArgs) Description() string {
	return "xset builds a red-black ordered set from the given keys and queries it."
}

func main() {
	var args cmdArgs
	arg.MustParse(&args)

	encoder := xlog.JSON
	if args.PlainText {
		encoder = xlog.PlainText
	}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevel(args.LogLevel)),
		xlog.WithXLoggerEncoder(encoder),
	).Named("xset")
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(args, logger); err != nil {
		_ = logger.Sync()
		log.Printf("fatal error: %v", err)
		os.Exit(1)
	}
}

func run(args cmdArgs, logger xlog.XLogger) error {
	opts := []tree.RBSetOpt[int64]{tree.WithRBSetLogger[int64](logger)}
	if args.Desc {
		opts = append(opts, tree.WithRBSetDesc[int64]())
	}
	set := tree.NewOrderedRBSet[int64](opts...)
	defer set.Release()

	added := set.InsertMany(args.Keys...)
	logger.Info("inserted",
		zap.Int("input", len(args.Keys)),
		zap.Int("added", added),
		zap.Int64s("keys", set.Keys()),
	)

	for _, key := range args.Erase {
		logger.Info("erase", zap.Int64("key", key), zap.Bool("removed", set.Remove(key)))
	}
	if len(args.Erase) > 0 {
		logger.Info("erased", zap.Int64("len", set.Len()), zap.Int64s("keys", set.Keys()))
	}

	for _, key := range args.Find {
		logger.Info("find", zap.Int64("key", key), zap.Bool("found", !set.Find(key).IsEnd()))
	}

	for _, key := range args.LowerBound {
		if it := set.LowerBound(key); it.IsEnd() {
			logger.Info("lower bound", zap.Int64("query", key), zap.Bool("end", true))
		} else {
			logger.Info("lower bound", zap.Int64("query", key), zap.Int64("key", it.Key()))
		}
	}

	if err := tree.Validate(set); err != nil {
		err = infra.WrapErrorStackWithMessage(err, "rbset validation")
		logger.ErrorStack(err, "invalid set")
		return err
	}
	return nil
}
