package facecrop

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/facecrop/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Supported files
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp"}

// Ops holds the source and destination of a run.
// Src and Dst can be files, directories or the pipe name; Src can also be an URL.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the relevant information about the processed image.
type result struct {
	path string
	err  error
}

// Execute runs the profile picture generation over the provided source.
// Directories are processed recursively by a pool of workers; the images
// without a face are reported but do not stop the run.
func (p *Processor) Execute(op *Ops) error {
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ FACECROP", utils.StatusMessage),
			utils.DecorateText("⇢ looking for faces...", utils.DefaultMessage),
		), time.Millisecond*80, true)
	}

	src := op.Src
	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		f, err := utils.DownloadImage(op.Src)
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return errors.Wrap(err, "failed to load the source image")
		}
		src = f.Name()
	}

	var (
		fs  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load the source image")
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	stopNotify := notifyInterrupt(func() {
		p.Spinner.RestoreCursor()
		os.Exit(1)
	})
	defer stopNotify()

	now := time.Now()
	p.Spinner.Start()

	var failed int
	switch mode := fs.Mode(); {
	case mode.IsDir():
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			p.Spinner.Stop()
			return errors.Wrap(err, "unable to create the destination directory")
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 {
			op.Workers = runtime.NumCPU()
		}
		op.Workers = utils.Clamp(op.Workers, 1, maxWorkers)

		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, src, validExtensions)

		var wg sync.WaitGroup
		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(p, src, op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var results []result
		for res := range ch {
			if res.err != nil {
				failed++
			}
			results = append(results, res)
		}
		p.Spinner.Stop()

		for _, res := range results {
			op.printOpStatus(res.path, res.err)
		}
		if err := <-errc; err != nil {
			return errors.Wrap(err, "directory walk failed")
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		ext := filepath.Ext(op.Dst)
		if !isValidExtension(ext, validExtensions) && op.Dst != op.PipeName {
			p.Spinner.Stop()
			return fmt.Errorf("%v file type not supported", ext)
		}

		err := op.process(p, src, op.Dst)
		p.Spinner.Stop()

		if err != nil {
			failed++
		}
		op.printOpStatus(op.Dst, err)
	default:
		p.Spinner.Stop()
		return fmt.Errorf("unsupported source: %s", op.Src)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	if failed > 0 {
		return fmt.Errorf("%d image(s) could not be processed", failed)
	}
	return nil
}

// notifyInterrupt calls onInterrupt when the process receives SIGINT or SIGTERM.
// The returned function stops the notification and waits for the watcher goroutine to exit.
func notifyInterrupt(onInterrupt func()) func() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-signalChan:
			onInterrupt()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(signalChan)
		close(done)
		<-exited
	}
}

// consumer reads the path names from the paths channel and calls the processor against the source image.
// The relative directory structure of the source is kept in the destination.
func (op *Ops) consumer(
	p *Processor,
	root, dest string,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		rel, err := filepath.Rel(root, src)
		if err != nil {
			rel = filepath.Base(src)
		}
		dst := filepath.Join(dest, rel)
		p.Spinner.SetMessage(progressMessage(rel))

		if err = os.MkdirAll(filepath.Dir(dst), 0755); err == nil {
			err = op.process(p, src, dst)
		}

		select {
		case <-done:
			return
		case res <- result{
			path: src,
			err:  err,
		}:
		}
	}
}

// progressMessage is the spinner text shown while the named image is processed.
func progressMessage(name string) string {
	return fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ FACECROP", utils.StatusMessage),
		utils.DecorateText("⇢ looking for faces in "+name+"...", utils.DefaultMessage),
	)
}

// process creates the profile picture of a single image.
func (op *Ops) process(p *Processor, in, out string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
	}()

	err = p.Process(src, dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		// remove the generated image file in case of an error
		if err != nil {
			os.Remove(f.Name())
		}
	}
	return err
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open the source file")
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to create the destination file")
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the processed image.
func (op *Ops) printOpStatus(fname string, err error) {
	switch {
	case errors.Is(err, ErrNoFace):
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			utils.DecorateText("No face found in:", utils.WarningMessage),
			filepath.Base(fname),
		)
	case err != nil:
		fmt.Fprintf(os.Stderr, "\n%s %s\n\t%s\n",
			utils.DecorateText("Error processing the image:", utils.ErrorMessage),
			filepath.Base(fname),
			utils.DecorateText(fmt.Sprintf("Reason: %v", err), utils.DefaultMessage),
		)
	case fname != op.PipeName:
		fmt.Fprintf(os.Stderr, "\nThe profile picture has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	ext = strings.ToLower(ext)
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
