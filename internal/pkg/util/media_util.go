package util

import (
	"Wellspring/internal/api/config"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strconv"
	"strings"

	"github.com/liuzl/gocc"
)

// GetSafeContentType 嗅探文件真实类型，不信任客户端声明的扩展名
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// GetDimensions 获取图片或视频的宽高
func GetDimensions(ctx context.Context, mediaUrl string) (int, int, error) {
	ffprobePath := config.Cfg.LibPath.FFprobe

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		"-i", mediaUrl,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe 解析失败: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(string(out)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ffprobe 输出异常: %q", out)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// GetDuration 获取视频时长
func GetDuration(ctx context.Context, mediaUrl string) (float64, error) {
	ffprobePath := config.Cfg.LibPath.FFprobe

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", mediaUrl,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe 解析失败: %w", err)
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}

// GetCover 截取视频首帧作为封面
func GetCover(ctx context.Context, mediaUrl string) (io.Reader, error) {
	ffmpegPath := config.Cfg.LibPath.FFmpeg

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", mediaUrl,
		"-vframes", "1",
		"-f", "image2pipe", "-vcodec", "mjpeg", "pipe:1",
	)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg 截帧失败: %w", err)
	}

	return bytes.NewReader(out.Bytes()), nil
}

// GetImageFrames 获取视频帧
func GetImageFrames(ctx context.Context, mediaUrl string, duration float64) ([]io.Reader, error) {
	ffmpegPath := config.Cfg.LibPath.FFmpeg
	fps := 5.0 / duration

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", mediaUrl,
		"-vf", fmt.Sprintf("fps=%f", fps),
		"-f", "image2pipe", "-vcodec", "mjpeg", "pipe:1",
	)

	stdout, _ := cmd.StdoutPipe()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var frames []io.Reader
	scanner := bufio.NewScanner(stdout)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)
	scanner.Split(splitJPEG)

	for scanner.Scan() {
		data := scanner.Bytes()
		tmp := make([]byte, len(data))
		copy(tmp, data)
		frames = append(frames, bytes.NewReader(tmp))
	}

	if err := cmd.Wait(); err != nil {
		fmt.Printf("FFmpeg Error: %s\n", stderr.String())
		return nil, err
	}
	return frames, nil
}

// AudioStreamToText 将音频流转换为文本
func AudioStreamToText(ctx context.Context, mediaUrl string) (string, error) {
	ffmpegPath := config.Cfg.LibPath.FFmpeg
	whisperPath := config.Cfg.LibPath.Whisper
	modelPath := config.Cfg.LibPath.WhisperModel

	// FFmpeg 从 URL 获取音频并输出标准 16kHz WAV 管道流
	ffmpegCmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", mediaUrl,
		"-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", "-f", "wav", "pipe:1")

	// Whisper执行
	whisperCmd := exec.CommandContext(ctx, whisperPath,
		"-m", modelPath,
		"-l", "zh",
		"-f", "-",
		"-nt",
		"--no-prints",
		"--output-file", "--output-*",
	)

	// 建立管道连接
	pr, pw := io.Pipe()
	ffmpegCmd.Stdout = pw
	whisperCmd.Stdin = pr

	var outBuf bytes.Buffer
	whisperCmd.Stdout = &outBuf

	// 启动进程
	if err := ffmpegCmd.Start(); err != nil {
		return "", err
	}
	if err := whisperCmd.Start(); err != nil {
		return "", err
	}

	// 异步监控生产者
	go func() {
		_ = ffmpegCmd.Wait()
		_ = pw.Close()
	}()

	// 等待 Whisper 识别完成
	if err := whisperCmd.Wait(); err != nil {
		return "", err
	}

	// 返回结果，同时尽可能返回简体
	res := strings.TrimSpace(outBuf.String())
	t2s, err := gocc.New("t2s")
	if err != nil {
		return res, nil
	}
	out, err := t2s.Convert(res)
	if err != nil {
		return res, nil
	}
	return out, nil
}

// splitJPEG 辅助函数：基于特征码切割 JPEG 流
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte{0xFF, 0xD9}); i >= 0 {
		return i + 2, data[0 : i+2], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
