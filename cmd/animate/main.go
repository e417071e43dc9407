// animate renders a YAML scene of plotter drawings into either a Flash
// Drive animation archive for a real 4050-series machine or an MP4 preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ivlev/hpgl2tek/internal/anim"
	"github.com/ivlev/hpgl2tek/internal/config"
	"github.com/ivlev/hpgl2tek/internal/monitor"
	"github.com/ivlev/hpgl2tek/internal/raster"
	"github.com/ivlev/hpgl2tek/internal/system"
	"github.com/ivlev/hpgl2tek/internal/video"
)

func main() {
	system.InitResourceLimits()

	outputPtr := flag.String("output", "", "Выходной файл (по умолчанию имя сцены + .zip или .mp4)")
	devicePtr := flag.String("device", "tek4050r12zip", "Устройство: tek4050r12zip, video")
	numberPtr := flag.Int("number", 1, "Номер файла плеера на ленте")
	automatePtr := flag.Float64("automate", 0, "Пауза между кадрами в секундах; 0 — ручное листание клавишей")
	monitorPtr := flag.Bool("monitor", false, "Показывать кадры в Tek-режиме xterm")
	workersPtr := flag.Int("workers", 0, "Потоки рендеринга кадров (0 — по числу ядер)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("[-] Ошибка: укажите файл сцены, например: animate scene.yaml")
	}
	scenePath := flag.Arg(0)

	cfg := &config.Config{
		ScenePath:     scenePath,
		OutputPath:    *outputPtr,
		Device:        *devicePtr,
		FileNumber:    *numberPtr,
		AutomateDelay: *automatePtr,
		Monitor:       *monitorPtr,
		Workers:       *workersPtr,
	}

	f, err := os.Open(cfg.ScenePath)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	sceneName := filepath.Base(cfg.ScenePath)
	a, err := anim.ReadScene(f, filepath.Dir(cfg.ScenePath), sceneName)
	f.Close()
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	fmt.Printf("[*] Сцена: %s | %.1f сек @ %g FPS | Кадров: %d\n",
		sceneName, a.Duration, a.FPS, a.FrameCount())

	var preview anim.Preview
	if cfg.Monitor {
		m, err := monitor.Open()
		if err != nil {
			log.Printf("[!] Монитор недоступен: %v", err)
		} else {
			defer m.Close()
			preview = m
		}
	}

	if cfg.OutputPath == "" {
		base := cfg.ScenePath[:len(cfg.ScenePath)-len(filepath.Ext(cfg.ScenePath))]
		switch cfg.Device {
		case "video":
			cfg.OutputPath = base + ".mp4"
		default:
			cfg.OutputPath = base + ".zip"
		}
	}

	switch cfg.Device {
	case "tek4050r12zip":
		out, err := os.Create(cfg.OutputPath)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		policy := anim.NewRetryPolicy(sceneName)
		err = a.RenderR12ZipShifted(out, cfg.FileNumber, cfg.AutomateDelay, preview, policy)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(cfg.OutputPath)
			log.Fatalf("[-] Ошибка: %v", err)
		}

	case "video":
		workers := system.RenderWorkers(cfg.Workers)
		encoder := system.GetBestH264Encoder()
		fmt.Printf("[*] Видео: %s | Потоков: %d\n", encoder, workers)

		vw, err := video.NewWriter(context.Background(), cfg.OutputPath,
			raster.Width, raster.Height, a.FPS, encoder)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		if err := a.RenderVideo(vw, workers, preview); err != nil {
			vw.Close()
			os.Remove(cfg.OutputPath)
			log.Fatalf("[-] Ошибка: %v", err)
		}
		if err := vw.Close(); err != nil {
			os.Remove(cfg.OutputPath)
			log.Fatalf("[-] Ошибка: %v", err)
		}

	default:
		log.Fatalf("[-] Ошибка: неизвестное устройство %q", cfg.Device)
	}

	fmt.Printf("[+++] Готово! Результат: %s\n", cfg.OutputPath)
}
