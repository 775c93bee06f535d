package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"payment-processor-sol/internal/config"
	"payment-processor-sol/internal/logic/paymentwatch"
	"payment-processor-sol/internal/logic/stream"
	"payment-processor-sol/internal/service"
	"payment-processor-sol/internal/svc"
	"payment-processor-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/watcher.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.WatcherConfig
	conf.MustLoad(*configFile, &c)

	logger.Init(c.LogConf.ToLogOption())
	defer logger.Sync()

	serviceContext, err := svc.NewWatcherServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	sg := zerosvc.NewServiceGroup()

	// RPC 轮询链路：始终启用，作为 gRPC 流的兜底与补偿
	pollService, err := service.NewPaymentPollService(serviceContext)
	if err != nil {
		panic(err)
	}
	sg.Add(pollService)

	// gRPC 流链路：配置了 endpoint 才启用
	if c.Grpc.Endpoint != "" {
		// txChan 不主动 close：接收协程可能在停机窗口内仍在写入，随进程退出即可
		txChan := make(chan *pb.SubscribeUpdateTransaction, 200)

		streamService, err := stream.NewGrpcStreamManager(&c, txChan)
		if err != nil {
			panic(err)
		}
		sg.Add(streamService)
		sg.Add(paymentwatch.NewStreamProcessor(serviceContext, txChan))
	}

	logger.Infof("Starting payment watcher service")

	// 启动服务
	sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("Shutting down services...")
	sg.Stop()
}
